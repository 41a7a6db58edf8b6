// model/neo4j/nodes.go
package acs_neo4j

// Node Labels
const (
	// LabelBadge represents a physical credential
	LabelBadge = "Badge"

	// LabelEmployee represents a badge holder
	LabelEmployee = "Employee"

	// LabelGroup represents a set of employees with shared resource permissions
	LabelGroup = "Group"

	// LabelResource represents a controlled asset (door, workstation, printer)
	LabelResource = "Resource"

	// LabelProfile represents an access profile (time rules, quotas, priority)
	LabelProfile = "AccessProfile"
)
