package academic

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hyperjump/smartutb/internal/models"
)

// days are scanned in this order; the first one found in the input is used.
var days = []string{"senin", "selasa", "rabu", "kamis", "jumat"}

// defaultDay is shown when the input names no day.
const defaultDay = "Senin"

func answerGPA(_ string, f *models.AcademicFacts) string {
	return fmt.Sprintf("IPK Kumulatif kamu saat ini adalah **%s**. Pertahankan ya!", orNA(f.Student.GPA.String()))
}

func answerAdvisor(_ string, f *models.AcademicFacts) string {
	a := f.Student.Advisor
	return fmt.Sprintf("Dosen wali kamu adalah **%s**. Kontak: %s.", orNA(a.Name), orNA(a.Email))
}

func answerBilling(_ string, f *models.AcademicFacts) string {
	b := f.Billing
	return fmt.Sprintf("Status: **%s**. Tagihan semester ini: **%s**. VA: %s.",
		orNA(b.PaymentStatus), FormatRupiah(b.AmountDue), orNA(b.VirtualAccount.String()))
}

func answerSchedule(input string, f *models.AcademicFacts) string {
	day := dayFromInput(input)
	if day == "" {
		lines := make([]string, 0)
		for _, e := range entriesForDay(f.Schedule, defaultDay) {
			lines = append(lines, fmt.Sprintf("• %s (%s)", e.Course, e.Time))
		}
		return fmt.Sprintf("Ini jadwal hari %s:\n%s\n(Sebutkan nama hari untuk jadwal lain)", defaultDay, strings.Join(lines, "\n"))
	}

	entries := entriesForDay(f.Schedule, day)
	if len(entries) == 0 {
		return fmt.Sprintf("Tidak ada jadwal kuliah di hari %s.", day)
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("• %s (%s) di %s", e.Course, e.Time, e.Room))
	}
	return fmt.Sprintf("Jadwal kuliah hari **%s**:\n%s", day, strings.Join(lines, "\n"))
}

func answerLeave(_ string, f *models.AcademicFacts) string {
	if f.Info.LeavePolicy == "" {
		return "Informasi cuti belum tersedia."
	}
	return f.Info.LeavePolicy
}

func answerScholarship(_ string, f *models.AcademicFacts) string {
	if f.Info.Scholarship == "" {
		return "Informasi beasiswa belum tersedia."
	}
	return f.Info.Scholarship
}

// dayFromInput returns the capitalised name of the first day found in input,
// or "" when none is mentioned.
func dayFromInput(input string) string {
	for _, d := range days {
		if strings.Contains(input, d) {
			return strings.ToUpper(d[:1]) + d[1:]
		}
	}
	return ""
}

// entriesForDay keeps schedule order and compares day names exactly.
func entriesForDay(schedule []models.ScheduleEntry, day string) []models.ScheduleEntry {
	var out []models.ScheduleEntry
	for _, e := range schedule {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// FormatRupiah renders amount rounded to whole rupiah with "." as the
// thousands separator, e.g. 1500000 -> "Rp 1.500.000".
func FormatRupiah(amount float64) string {
	rounded := math.RoundToEven(amount)
	digits := strconv.FormatFloat(math.Abs(rounded), 'f', 0, 64)
	var b strings.Builder
	b.WriteString("Rp ")
	if rounded < 0 {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
