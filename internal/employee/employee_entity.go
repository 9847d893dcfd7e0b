package employee

// Employee is a tutor as exposed by the directory backend. It is read-only
// here; the directory system owns it.
type Employee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
	Active    bool   `json:"active"`
}

// HasTeacher reports whether the employee can own payroll periods.
func (e Employee) HasTeacher() bool {
	return e.TeacherID != ""
}
