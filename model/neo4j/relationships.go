// model/neo4j/relationships.go
package acs_neo4j

// Relationship Types
const (
	// RelOwns represents the relationship between an employee and their badge
	RelOwns = "OWNS"

	// RelMemberOf represents the relationship between an employee and a group
	RelMemberOf = "MEMBER_OF"

	// RelPermits represents the relationship between a group and the resources it grants
	RelPermits = "PERMITS"

	// RelGoverns represents the relationship between a profile and the
	// groups, employees or badges it applies to
	RelGoverns = "GOVERNS"

	// RelDependsOn represents a prerequisite edge between two resources;
	// carries an optional timeWindowMinutes property
	RelDependsOn = "DEPENDS_ON"
)
