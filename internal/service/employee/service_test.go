package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/jsonfile"
	auditservice "github.com/cmlabs-hris/hris-payroll-go/internal/service/audit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store          *repository.Store
	svc            *EmployeeServiceImpl
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	payrollRepo    payroll.PayrollRepository
	auditRepo      audit.AuditRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend, err := jsonfile.NewBackend(t.TempDir(), "db.json")
	require.NoError(t, err)
	store := repository.NewStore(backend)

	f := fixture{
		store:          store,
		employeeRepo:   repository.NewEmployeeRepository(store),
		attendanceRepo: repository.NewAttendanceRepository(store),
		leaveRepo:      repository.NewLeaveRequestRepository(store),
		payrollRepo:    repository.NewPayrollRepository(store),
		auditRepo:      repository.NewAuditRepository(store),
	}
	f.svc = NewEmployeeService(
		store,
		f.employeeRepo,
		f.attendanceRepo,
		f.leaveRepo,
		f.payrollRepo,
		auditservice.NewAuditService(f.auditRepo),
	).(*EmployeeServiceImpl)
	return f
}

func ptr[T any](v T) *T { return &v }

func newEmployeeReq(first, last, hired string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:  first,
		LastName:   last,
		Department: "Operations",
		Branch:     "Makati",
		Position:   "Clerk",
		DateHired:  ptr(hired),
		SalaryInfo: map[string]decimal.Decimal{"daily_rate": decimal.NewFromInt(650)},
	}
}

func TestCreateEmployee_AssignsSequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	next, err := f.svc.GetNextEmployeeID(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-0001", next)

	first, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Juan", "Dela Cruz", "2024-01-15"))
	require.NoError(t, err)
	second, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Maria", "Santos", "2024-06-01"))
	require.NoError(t, err)
	other, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Jose", "Rizal", "2025-02-01"))
	require.NoError(t, err)

	assert.Equal(t, "2024-0001", first.EmployeeID)
	assert.Equal(t, "2024-0002", second.EmployeeID)
	assert.Equal(t, "2025-0001", other.EmployeeID)
	assert.Equal(t, employee.EmploymentProbationary, first.EmploymentStatus)
	assert.Equal(t, employee.CompletionIncomplete, first.FileCompletionStatus)
	assert.True(t, decimal.NewFromInt(650).Equal(first.SalaryInfo["daily_rate"]))

	next, err = f.svc.GetNextEmployeeID(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-0003", next)
}

func TestGetNextEmployeeID_SkipsGapsAndForeignCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, code := range []string{"2024-0007", "2024-0002", "2024-x", "2023-0050"} {
		_, err := f.store.Insert(ctx, record.TableEmployees, record.Row{"employee_id": code})
		require.NoError(t, err)
	}

	next, err := f.svc.GetNextEmployeeID(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024-0008", next)

	_, err = f.svc.GetNextEmployeeID(ctx, 24)
	assert.ErrorIs(t, err, employee.ErrInvalidEmployeeID)
}

func TestCreateEmployee_ExplicitID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := newEmployeeReq("Ana", "Reyes", "2023-03-01")
	req.EmployeeID = ptr("2023-0100")
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2023-0100", created.EmployeeID)

	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	req.EmployeeID = ptr("23-100")
	_, err = f.svc.CreateEmployee(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
}

func TestCreateEmployee_InsertReturnsSuperset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := newEmployeeReq("Ana", "Reyes", "2024-03-01")
	req.Email = ptr("ana@example.com")
	req.HasResume = ptr(true)
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	row, err := f.store.GetByID(ctx, record.TableEmployees, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", row.String("first_name"))
	assert.Equal(t, "ana@example.com", row.String("email"))
	assert.Equal(t, true, row["has_resume"])
	assert.Equal(t, "Partial", row.String("file_completion_status"))
	assert.True(t, row.Has("id"))
	assert.True(t, row.Has("created_at"))
}

func TestCreateEmployee_WritesAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Ana", "Reyes", "2024-03-01"))
	require.NoError(t, err)

	entries, err := f.auditRepo.List(ctx, audit.Filter{Entity: "employee", EntityID: &created.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)
	assert.Nil(t, entries[0].OldValue)
	require.NotNil(t, entries[0].NewValue)
	assert.Contains(t, *entries[0].NewValue, `"employee_id":"2024-0001"`)
}

// flakyEmployeeRepo fails the first Create with a unique violation.
type flakyEmployeeRepo struct {
	employee.EmployeeRepository
	failures int
	resets   int
}

func (r *flakyEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if r.failures > 0 {
		r.failures--
		return employee.Employee{}, &record.ConstraintError{Table: record.TableEmployees, Constraint: "employees_pkey"}
	}
	return r.EmployeeRepository.Create(ctx, e)
}

func (r *flakyEmployeeRepo) ResetSequence(ctx context.Context) error {
	r.resets++
	return r.EmployeeRepository.ResetSequence(ctx)
}

func TestCreateEmployee_RetriesOnceAfterUniqueViolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	flaky := &flakyEmployeeRepo{EmployeeRepository: f.employeeRepo, failures: 1}
	f.svc.employeeRepo = flaky

	created, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Ana", "Reyes", "2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, "2024-0001", created.EmployeeID)
	assert.Equal(t, 1, flaky.resets)

	flaky.failures = 2
	_, err = f.svc.CreateEmployee(ctx, newEmployeeReq("Ben", "Cruz", "2024-03-01"))
	assert.ErrorIs(t, err, record.ErrUniqueViolation)
	assert.Equal(t, 2, flaky.resets)

	list, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdate201Checklist_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Ana", "Reyes", "2024-03-01"))
	require.NoError(t, err)

	update := employee.ChecklistUpdate{HasResume: ptr(true), HasDiploma: ptr(true)}
	first, err := f.svc.Update201Checklist(ctx, created.ID, update)
	require.NoError(t, err)
	second, err := f.svc.Update201Checklist(ctx, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, employee.CompletionPartial, first.FileCompletionStatus)
	assert.Equal(t, first.Checklist, second.Checklist)
	assert.Equal(t, first.FileCompletionStatus, second.FileCompletionStatus)

	all := employee.ChecklistUpdate{
		HasResume: ptr(true), HasBirthCertificate: ptr(true), HasNBIClearance: ptr(true),
		HasMedicalCertificate: ptr(true), HasDiploma: ptr(true), HasSSSForm: ptr(true),
		HasPhilHealthForm: ptr(true), HasPagIBIGForm: ptr(true), HasTINForm: ptr(true),
	}
	complete, err := f.svc.Update201Checklist(ctx, created.ID, all)
	require.NoError(t, err)
	assert.Equal(t, employee.CompletionComplete, complete.FileCompletionStatus)

	cleared, err := f.svc.Update201Checklist(ctx, created.ID, employee.ChecklistUpdate{HasDiploma: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, employee.CompletionPartial, cleared.FileCompletionStatus)
	assert.True(t, cleared.Checklist.HasResume)
	assert.False(t, cleared.Checklist.HasDiploma)

	_, err = f.svc.Update201Checklist(ctx, created.ID, employee.ChecklistUpdate{})
	assert.ErrorIs(t, err, employee.ErrEmptyChecklistUpdate)

	_, err = f.svc.Update201Checklist(ctx, 999, update)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpdateEmployee_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := newEmployeeReq("Ana", "Reyes", "2024-03-01")
	req.Email = ptr("ana@example.com")
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:               created.ID,
		Position:         ptr("Supervisor"),
		Email:            ptr(""),
		EmploymentStatus: ptr(string(employee.EmploymentRegular)),
		ChecklistUpdate:  employee.ChecklistUpdate{HasTINForm: ptr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Supervisor", updated.Position)
	assert.Equal(t, "Ana", updated.FirstName)
	assert.Equal(t, "Makati", updated.Branch)
	assert.Nil(t, updated.Email)
	assert.Equal(t, employee.EmploymentRegular, updated.EmploymentStatus)
	assert.Equal(t, employee.CompletionPartial, updated.FileCompletionStatus)
	assert.Equal(t, created.EmployeeID, updated.EmployeeID)

	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: 404, Position: ptr("x")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetByEmployeeCode_CaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := newEmployeeReq("Ana", "Reyes", "2024-03-01")
	req.EmployeeID = ptr("2024-0042")
	_, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	got, err := f.svc.GetByEmployeeCode(ctx, " 2024-0042 ")
	require.NoError(t, err)
	assert.Equal(t, "Reyes", got.LastName)

	_, err = f.svc.GetByEmployeeCode(ctx, "2024-%")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListEmployees_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, r := range []employee.CreateEmployeeRequest{
		newEmployeeReq("John", "Doe", "2024-01-01"),
		newEmployeeReq("Jane", "DOEHRING", "2024-01-02"),
		newEmployeeReq("Mark", "Smith", "2024-01-03"),
	} {
		_, err := f.svc.CreateEmployee(ctx, r)
		require.NoError(t, err)
	}

	found, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Search: "doe"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Doe", found[0].LastName)
	assert.Equal(t, "DOEHRING", found[1].LastName)

	found, err = f.svc.ListEmployees(ctx, employee.EmployeeFilter{Search: "d_e"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.svc.ListEmployees(ctx, employee.EmployeeFilter{Branch: "Cebu"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDeleteEmployee_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gone, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Ana", "Reyes", "2024-03-01"))
	require.NoError(t, err)
	kept, err := f.svc.CreateEmployee(ctx, newEmployeeReq("Ben", "Cruz", "2024-03-01"))
	require.NoError(t, err)

	for _, id := range []int64{gone.ID, kept.ID} {
		_, err := f.attendanceRepo.Create(ctx, attendance.Attendance{EmployeeID: id, Date: "2024-03-04", Status: attendance.StatusPresent})
		require.NoError(t, err)
		_, err = f.leaveRepo.Create(ctx, leave.LeaveRequest{
			EmployeeID: id, LeaveType: "Sick Leave", StartDate: "2024-03-05", EndDate: "2024-03-05",
			DaysCount: 1, CurrentApprovalLevel: 1, Status: leave.PendingStatus(1),
		})
		require.NoError(t, err)
	}
	run, err := f.payrollRepo.CreateRun(ctx, payroll.PayrollRun{PeriodStart: "2024-03-01", PeriodEnd: "2024-03-15", Status: payroll.RunStatusDraft})
	require.NoError(t, err)
	_, err = f.payrollRepo.CreatePayslips(ctx, run.ID, []payroll.Payslip{{EmployeeID: gone.ID}, {EmployeeID: kept.ID}})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, gone.ID))

	_, err = f.svc.GetEmployee(ctx, gone.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	count := func(table string, id int64) int64 {
		n, err := f.store.Count(ctx, table, record.Where(record.Eq("employee_id", id)))
		require.NoError(t, err)
		return n
	}
	for _, table := range []string{record.TableAttendance, record.TableLeaveRequests, record.TablePayslips} {
		assert.Zero(t, count(table, gone.ID), table)
		assert.Equal(t, int64(1), count(table, kept.ID), table)
	}

	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, gone.ID), employee.ErrEmployeeNotFound)
}
