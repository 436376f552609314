package repository

// dateOnly trims a stored timestamp down to YYYY-MM-DD.
func dateOnly(s *string) *string {
	if s == nil {
		return nil
	}
	if len(*s) > 10 && (*s)[10] == 'T' {
		d := (*s)[:10]
		return &d
	}
	return s
}

func dateString(s string) string {
	if d := dateOnly(&s); d != nil {
		return *d
	}
	return s
}
