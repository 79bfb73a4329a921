package service

import "campusanon/internal/model"

// canAccessByRule evaluates the access rules that need no storage lookup:
// global community, admin bypass, year/branch auto-match. Explicit membership
// is the storage-backed fallback the caller checks when this returns false.
func canAccessByRule(user *model.User, community *model.Community) bool {
	if community.IsGlobal {
		return true
	}
	if user.IsAdmin() {
		return true
	}
	yearOK := community.Year == 0 || community.Year == user.Year
	branchOK := community.Branch == "" || community.Branch == user.Branch
	return yearOK && branchOK
}

// CanAccess resolves read/write access for a user and community. Precedence:
// global, admin, auto-match, explicit membership. Evaluated per request; the
// decision itself is never cached.
func (s *CommunityService) CanAccess(user *model.User, community *model.Community) (bool, error) {
	if canAccessByRule(user, community) {
		return true, nil
	}
	return s.memberRepo.IsMember(community.ID, user.ID)
}
