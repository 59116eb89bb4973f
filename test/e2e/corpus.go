// Package e2e provides end-to-end tests that drive the HTTP API over the
// sample data shipped in data/.
package e2e

import "github.com/hyperjump/smartutb/internal/models"

// SampleDataDir is the shipped data directory relative to this package.
const SampleDataDir = "../../data"

// ChatCase is one message sent to /chat and the answer it must produce.
// Want is matched as a substring; an empty Want only checks Found.
type ChatCase struct {
	Description string
	Message     string
	Role        string
	Want        string
	WantFound   bool
}

// Scenario is a conversation of one student in one session.
type Scenario struct {
	NIM       string
	Password  string
	SessionID string
	Messages  []string
}

// ChatCases are answered from data/data_public.json and data/data_academic.json.
var ChatCases = []ChatCase{
	{"guest library hours", "Jam buka perpus", models.RoleGuest, "08:00–20:00", true},
	{"guest campus location", "lokasi kampus UTB", models.RoleGuest, "Soekarno-Hatta", true},
	{"guest registration", "cara daftar mahasiswa baru", "", "pmb.utb.ac.id", true},
	{"guest graduation", "jadwal wisuda", models.RoleGuest, "Maret dan September", true},
	{"guest wifi", "wifi kampus utb", models.RoleGuest, "UTB-Student", true},
	{"guest asks gpa", "berapa ipk saya", models.RoleGuest, "Maaf, saya belum mengerti", false},
	{"guest small talk", "halo apa kabar", models.RoleGuest, "Maaf, saya belum mengerti", false},
	{"student gpa", "Berapa IPK saya?", models.RoleStudent, "**3.62**", true},
	{"student advisor", "siapa dosen wali saya", models.RoleStudent, "Dr. Hendra Wijaya, M.Kom.", true},
	{"student billing", "berapa biaya semester ini", models.RoleStudent, "Rp 4.750.000", true},
	{"student schedule tuesday", "jadwal kuliah hari selasa", models.RoleStudent, "Basis Data Lanjut (10:00-12:30) di R. 201", true},
	{"student schedule friday", "jadwal jumat", models.RoleStudent, "Tidak ada jadwal kuliah di hari Jumat.", true},
	{"student schedule default", "jadwal saya", models.RoleStudent, "(Sebutkan nama hari untuk jadwal lain)", true},
	{"student schedule outranks bank", "jadwal wisuda", models.RoleStudent, "Ini jadwal hari Senin:", true},
	{"student leave", "syarat cuti", models.RoleStudent, "maksimal 2 semester", true},
	{"student scholarship", "info beasiswa", models.RoleStudent, "IPK minimal 3.50", true},
	{"student falls through to bank", "telepon akademik", models.RoleStudent, "7301234", true},
}

// Scenarios are full conversations replayed through /chat and read back
// through /get_sessions and /get_chat_detail.
var Scenarios = []Scenario{
	{
		NIM:       "2021001",
		Password:  "mahasiswa123",
		SessionID: "sesi-rina-1",
		Messages:  []string{"Berapa IPK saya?", "jadwal hari senin", "mau bayar tagihan"},
	},
	{
		NIM:       "2021001",
		Password:  "mahasiswa123",
		SessionID: "sesi-rina-2",
		Messages:  []string{"info beasiswa"},
	},
	{
		NIM:       "2022017",
		Password:  "utb2022",
		SessionID: "sesi-dimas-1",
		Messages:  []string{"siapa dosen wali saya", "halo"},
	},
}
