package service

import "strings"

// Branch names arrive from the client in long form; storage and community
// matching use the short codes the community matrix is seeded with.
var branchCanonical = map[string]string{
	"COMP":                             "COMP",
	"COMPUTER":                         "COMP",
	"COMPUTER ENGINEERING":             "COMP",
	"IT":                               "IT",
	"INFORMATION TECHNOLOGY":           "IT",
	"ENTC":                             "ENTC",
	"E&TC":                             "ENTC",
	"ELECTRONICS AND TELECOMMUNICATION": "ENTC",
	"MECH":                   "MECH",
	"MECHANICAL":             "MECH",
	"MECHANICAL ENGINEERING": "MECH",
	"ARE":                    "ARE",
	"AUTOMATION AND ROBOTICS": "ARE",
}

// CanonicalBranch maps a submitted branch to its short code. The second
// return is false for branches the campus does not have.
func CanonicalBranch(branch string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(branch))
	code, ok := branchCanonical[key]
	return code, ok
}
