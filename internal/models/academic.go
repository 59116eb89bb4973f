package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AcademicFacts is the single academic record served to every student.
type AcademicFacts struct {
	Student  StudentRecord   `json:"mahasiswa"`
	Billing  BillingRecord   `json:"keuangan"`
	Schedule []ScheduleEntry `json:"jadwal_kuliah"`
	Info     GeneralInfo     `json:"info_umum"`
}

// StudentRecord holds the GPA and the academic advisor.
type StudentRecord struct {
	GPA     Scalar  `json:"ipk"`
	Advisor Advisor `json:"dosen_wali"`
}

// Advisor is the student's academic advisor (dosen wali).
type Advisor struct {
	Name  string `json:"nama"`
	Email string `json:"email"`
}

// BillingRecord is the semester tuition state.
type BillingRecord struct {
	AmountDue      float64 `json:"tagihan_semester"`
	PaymentStatus  string  `json:"status_pembayaran"`
	VirtualAccount Scalar  `json:"virtual_account"`
}

// ScheduleEntry is one lecture slot.
type ScheduleEntry struct {
	Day    string `json:"hari"`
	Course string `json:"matkul"`
	Time   string `json:"jam"`
	Room   string `json:"ruang"`
}

// GeneralInfo holds free-text institutional information.
type GeneralInfo struct {
	LeavePolicy string `json:"syarat_cuti"`
	Scholarship string `json:"beasiswa"`
}

// Scalar is a JSON string or number kept as the text it was written with,
// so 3.75 and "3.75" both render as 3.75.
type Scalar string

// UnmarshalJSON accepts strings, numbers and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	*s = Scalar(strings.TrimSpace(string(data)))
	return nil
}

// String returns the scalar text.
func (s Scalar) String() string {
	return string(s)
}
