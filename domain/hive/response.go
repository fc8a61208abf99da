package hive

import "time"

// Response records one user's stance on a point or synapse.
type Response struct {
	UserID string    `json:"UserId"`
	Agrees bool      `json:"Agrees"`
	Time   time.Time `json:"Time"`
}

// ResponseList is the ordered-by-arrival set of responses on an item.
// At most one entry exists per user.
type ResponseList []Response

// Upsert applies the one-response-per-user rule: an existing record for the
// user has its stance and timestamp overwritten in place, otherwise a new
// record is appended. Returns the updated list.
func (rs ResponseList) Upsert(userID string, agrees bool, now time.Time) ResponseList {
	for i := range rs {
		if rs[i].UserID == userID {
			rs[i].Agrees = agrees
			rs[i].Time = now
			return rs
		}
	}
	return append(rs, Response{UserID: userID, Agrees: agrees, Time: now})
}

// ByUser returns the user's response record, if any.
func (rs ResponseList) ByUser(userID string) (Response, bool) {
	for _, r := range rs {
		if r.UserID == userID {
			return r, true
		}
	}
	return Response{}, false
}
