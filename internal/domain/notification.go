package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type BidStatusChangedData struct {
	FullName   string    `json:"fullName"`
	EmployeeID int64     `json:"employeeID"`
	ShiftID    int64     `json:"shiftID"`
	NewStatus  BidStatus `json:"newStatus"`
	Reason     string    `json:"reason"`
}

type ShiftAssignedData struct {
	FullName   string `json:"fullName"`
	EmployeeID int64  `json:"employeeID"`
	ShiftID    int64  `json:"shiftID"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

type CreateEmployeeData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
