package lead

import (
	"strings"

	"github.com/frahmantamala/lead-management/internal/entity"
)

// Lead is a display-only case row. Leads are sample data and never stored.
type Lead struct {
	ID           string `json:"id"`
	SignInDate   string `json:"signInDate"`
	CaseID       string `json:"caseId"`
	CustomerName string `json:"customerName"`
	Number       string `json:"number"`
	Email        string `json:"email"`
	DebtsLevel   string `json:"debtsLevel"`
	CaseStatus   string `json:"caseStatus"`
	UserCaseType string `json:"userCaseType"`
}

func (l Lead) Identity() string    { return l.ID }
func (l Lead) StatusValue() string { return l.CaseStatus }

func (l Lead) SearchText() string {
	return strings.Join([]string{l.CustomerName, l.CaseID, l.Email, l.Number}, " ")
}

var Kind = entity.Kind{Name: "lead", Route: "/lead/list", IdentityField: "id"}

// SampleLeads is the fixed lead list shown on the lead screen.
func SampleLeads() []Lead {
	return []Lead{
		{ID: "1", SignInDate: "2024-01-08", CaseID: "CS-1001", CustomerName: "Andi Pratama", Number: "+62 812 1000 2001", Email: "andi.pratama@example.com", DebtsLevel: "low", CaseStatus: "new", UserCaseType: "personal loan"},
		{ID: "2", SignInDate: "2024-01-09", CaseID: "CS-1002", CustomerName: "Budi Santoso", Number: "+62 812 1000 2002", Email: "budi.santoso@example.com", DebtsLevel: "medium", CaseStatus: "in progress", UserCaseType: "mortgage"},
		{ID: "3", SignInDate: "2024-01-11", CaseID: "CS-1003", CustomerName: "Citra Lestari", Number: "+62 812 1000 2003", Email: "citra.lestari@example.com", DebtsLevel: "high", CaseStatus: "new", UserCaseType: "credit card"},
		{ID: "4", SignInDate: "2024-01-15", CaseID: "CS-1004", CustomerName: "Dewi Anggraini", Number: "+62 812 1000 2004", Email: "dewi.anggraini@example.com", DebtsLevel: "low", CaseStatus: "closed", UserCaseType: "vehicle loan"},
		{ID: "5", SignInDate: "2024-01-17", CaseID: "CS-1005", CustomerName: "Eko Wibowo", Number: "+62 812 1000 2005", Email: "eko.wibowo@example.com", DebtsLevel: "medium", CaseStatus: "in progress", UserCaseType: "personal loan"},
		{ID: "6", SignInDate: "2024-01-22", CaseID: "CS-1006", CustomerName: "Fitri Handayani", Number: "+62 812 1000 2006", Email: "fitri.handayani@example.com", DebtsLevel: "high", CaseStatus: "rejected", UserCaseType: "business loan"},
		{ID: "7", SignInDate: "2024-02-02", CaseID: "CS-1007", CustomerName: "Gilang Ramadhan", Number: "+62 812 1000 2007", Email: "gilang.ramadhan@example.com", DebtsLevel: "low", CaseStatus: "new", UserCaseType: "mortgage"},
		{ID: "8", SignInDate: "2024-02-05", CaseID: "CS-1008", CustomerName: "Hana Putri", Number: "+62 812 1000 2008", Email: "hana.putri@example.com", DebtsLevel: "medium", CaseStatus: "closed", UserCaseType: "credit card"},
	}
}
