package dto

// DashboardTotals aggregates catalogue wide figures.
type DashboardTotals struct {
	Courses          int `json:"courses"`
	Enrollments      int `json:"enrollments"`
	Capacity         int `json:"capacity"`
	CapacityUsagePct int `json:"capacity_usage_pct"`
	AverageClassSize int `json:"average_class_size"`
}

// StudentSummary is shown to students only.
type StudentSummary struct {
	Courses int `json:"courses"`
	Credits int `json:"credits"`
}

// CourseLoad is one bar of the enrollment chart.
type CourseLoad struct {
	Code      string `json:"code"`
	Enrolled  int    `json:"enrolled"`
	Remaining int    `json:"remaining"`
}

// DepartmentShare is one slice of the department distribution.
type DepartmentShare struct {
	Department string `json:"department"`
	Courses    int    `json:"courses"`
}

// DashboardResponse is the academic overview for the signed in user.
type DashboardResponse struct {
	Greeting    string            `json:"greeting"`
	Totals      DashboardTotals   `json:"totals"`
	Student     *StudentSummary   `json:"student,omitempty"`
	CourseLoads []CourseLoad      `json:"course_loads"`
	Departments []DepartmentShare `json:"departments"`
}
