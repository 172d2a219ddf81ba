package cadet

// Reference list kinds stored alongside roles.
const (
	KindFlight    = "flight"
	KindRank      = "rank"
	KindCadetYear = "cadet_year"
	KindGrade     = "grade"
)

// ValidKinds lists the reference kinds that admins may edit.
var ValidKinds = []string{KindFlight, KindRank, KindCadetYear, KindGrade}

// Default role reference entries.
var DefaultRoles = []Role{
	{ID: "cadet", Name: "cadet", Label: "Cadet"},
	{ID: "cadet_staff", Name: "cadet_staff", Label: "Cadet Staff"},
	{ID: "cadet_commander", Name: "cadet_commander", Label: "Cadet Commander"},
	{ID: "instructor", Name: "instructor", Label: "Instructor"},
}

// DefaultFlights are the flights seeded on first start.
var DefaultFlights = []string{"Alpha", "Bravo", "Charlie", "Delta"}

// DefaultCadetYears are the leadership education years.
var DefaultCadetYears = []string{"LET 1", "LET 2", "LET 3", "LET 4"}

// DefaultRanks are cadet grades from lowest to highest.
var DefaultRanks = []string{
	"C/AB", "C/Amn", "C/A1C", "C/SrA",
	"C/SSgt", "C/TSgt", "C/MSgt", "C/SMSgt", "C/CMSgt",
	"C/2d Lt", "C/1st Lt", "C/Capt", "C/Maj", "C/Lt Col", "C/Col",
}

// DefaultReferenceValues returns the seeded values for a kind, in display order.
func DefaultReferenceValues(kind string) []string {
	switch kind {
	case KindFlight:
		return DefaultFlights
	case KindRank:
		return DefaultRanks
	case KindCadetYear:
		return DefaultCadetYears
	case KindGrade:
		return DefaultGradeLabels
	}
	return nil
}

// IsValidKind reports whether kind is an editable reference kind.
func IsValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Ordinal returns the position of value in list, or -1 when absent.
// Used to sort grades and ranks by seniority instead of alphabetically.
func Ordinal(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
