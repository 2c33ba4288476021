package broker

import "strconv"

// Activities are partitioned by the user they are addressed to, so a
// consumer can filter on a single user if it needs to.
var (
	StreamName      = "ACTIVITY"
	SubjectWildcard = StreamName + ".user.*"
)

// Subject returns the subject activities for userID are published on.
func Subject(userID int64) string {
	return StreamName + ".user." + strconv.FormatInt(userID, 10)
}
