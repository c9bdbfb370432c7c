// Package school declares the resource schemas the dashboard pages manage.
// Each page is one Controller instantiated from one of these schemas rather
// than a hand-duplicated copy of the CRUD plumbing.
package school

import "github.com/trezcool/shule/core/resource"

var (
	Assignments = resource.Schema{
		Name:     "assignment",
		Endpoint: "/api/assignments",
		Fields: []resource.Field{
			{Name: "title", Label: "Title", Required: true, Searchable: true},
			{Name: "subject", Label: "Subject", Required: true, Searchable: true},
			{Name: "classSection", Label: "Class", Required: true, Reference: true},
			{Name: "description", Label: "Description", Searchable: true},
			{Name: "fileUrl", Label: "File URL"},
			{Name: "dueDate", Label: "Due Date"},
		},
		QueryParams: []string{"classSection"},
	}

	Notices = resource.Schema{
		Name:     "notice",
		Endpoint: "/api/notices",
		Fields: []resource.Field{
			{Name: "title", Label: "Title", Required: true, Searchable: true},
			{Name: "body", Label: "Body", Required: true, Searchable: true},
			{Name: "audience", Label: "Audience"}, // all | teachers | students
			{Name: "publishedAt", Label: "Published"},
		},
	}

	Downloads = resource.Schema{
		Name:     "download",
		Endpoint: "/api/downloads",
		Fields: []resource.Field{
			{Name: "title", Label: "Title", Required: true, Searchable: true},
			{Name: "category", Label: "Category", Searchable: true},
			{Name: "fileUrl", Label: "File URL", Required: true},
		},
	}

	FeePayments = resource.Schema{
		Name:     "fee payment",
		Endpoint: "/api/fees",
		Fields: []resource.Field{
			{Name: "student", Label: "Student", Required: true, Reference: true, Searchable: true},
			{Name: "amount", Label: "Amount", Required: true, Numeric: true},
			{Name: "term", Label: "Term", Required: true},
			{Name: "method", Label: "Method"}, // cash | mobile money | bank
			{Name: "reference", Label: "Reference", Searchable: true},
			{Name: "status", Label: "Status"},
		},
		QueryParams: []string{"student", "term"},
	}

	InventoryItems = resource.Schema{
		Name:     "inventory item",
		Endpoint: "/api/inventory",
		Fields: []resource.Field{
			{Name: "name", Label: "Name", Required: true, Searchable: true},
			{Name: "code", Label: "Code", Required: true, Searchable: true},
			{Name: "quantity", Label: "Quantity", Required: true, Numeric: true},
			{Name: "unitPrice", Label: "Unit Price", Numeric: true},
			{Name: "location", Label: "Location"},
		},
	}

	QuestionBanks = resource.Schema{
		Name:     "question bank",
		Endpoint: "/api/questionbanks",
		Fields: []resource.Field{
			{Name: "title", Label: "Title", Required: true, Searchable: true},
			{Name: "subject", Label: "Subject", Required: true, Searchable: true},
			{Name: "classSection", Label: "Class", Required: true, Reference: true},
			{Name: "fileUrl", Label: "File URL", Required: true},
		},
		QueryParams: []string{"classSection"},
	}

	ClassSections = resource.Schema{
		Name:     "class section",
		Endpoint: "/api/classes",
		Fields: []resource.Field{
			{Name: "name", Label: "Name", Required: true, Searchable: true},
			{Name: "level", Label: "Level", Required: true},
			{Name: "capacity", Label: "Capacity", Numeric: true},
			{Name: "teacher", Label: "Class Teacher", Reference: true},
		},
	}

	AttendanceRecords = resource.Schema{
		Name:     "attendance record",
		Endpoint: "/api/attendance",
		Fields: []resource.Field{
			{Name: "student", Label: "Student", Required: true, Reference: true, Searchable: true},
			{Name: "classSection", Label: "Class", Required: true, Reference: true},
			{Name: "date", Label: "Date", Required: true},
			{Name: "status", Label: "Status", Required: true}, // present | absent | late
		},
		// attendance exports are driven server-side by class and date range
		QueryParams: []string{"classSection", "from", "to"},
	}
)

// All returns every built-in schema, in dashboard menu order.
func All() []resource.Schema {
	return []resource.Schema{
		Assignments,
		Notices,
		Downloads,
		FeePayments,
		InventoryItems,
		QuestionBanks,
		ClassSections,
		AttendanceRecords,
	}
}
