package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestGovernmentNumbers(t *testing.T) {
	cases := []struct {
		name  string
		fn    func(string) bool
		valid []string
		bad   []string
	}{
		{"sss", IsValidSSS, []string{"34-1234567-8", "3412345678"}, []string{"34-123456-8", "34-1234567-a", ""}},
		{"philhealth", IsValidPhilHealth, []string{"12-345678901-2", "123456789012"}, []string{"12345678901", "12-345678901-x"}},
		{"pagibig", IsValidPagIBIG, []string{"1234-5678-9012"}, []string{"1234-5678-901"}},
		{"tin", IsValidTIN, []string{"123-456-789", "123-456-789-000"}, []string{"123-456-78", "123-456-789-0000"}},
	}
	for _, c := range cases {
		for _, v := range c.valid {
			if !c.fn(v) {
				t.Errorf("%s(%q) = false, want true", c.name, v)
			}
		}
		for _, v := range c.bad {
			if c.fn(v) {
				t.Errorf("%s(%q) = true, want false", c.name, v)
			}
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"08:00", "17:30:15", "00:00"}
	invalid := []string{"25:00", "8am", "", "08:60"}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	if !IsValidEmployeeCode("2024-0001") {
		t.Errorf("IsValidEmployeeCode('2024-0001') = false, want true")
	}
	for _, s := range []string{"2024-1", "24-0001", "2024_0001", "2024-00001"} {
		if IsValidEmployeeCode(s) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", s)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	var errs ValidationErrors
	ValidateDateRange(&errs, "start_date", "2024-03-01", "end_date", "2024-03-05")
	if len(errs) != 0 {
		t.Errorf("ValidateDateRange valid range returned %v", errs)
	}

	errs = nil
	ValidateDateRange(&errs, "start_date", "2024-03-05", "end_date", "2024-03-01")
	if len(errs) != 1 || errs[0].Field != "end_date" {
		t.Errorf("ValidateDateRange reversed range = %v, want one end_date error", errs)
	}

	errs = nil
	ValidateDateRange(&errs, "start_date", "bad", "end_date", "")
	if len(errs) != 2 {
		t.Errorf("ValidateDateRange malformed = %v, want two errors", errs)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "date", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; date: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "date", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "date": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
