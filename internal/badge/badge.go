// Package badge computes the notification counts shown on a user's badge.
package badge

const (
	QueryFriendRequests  = "friend_requests"
	QueryRecommendations = "recommendations"
	QueryMessages        = "messages"
)

type Counts struct {
	PendingFriendRequests int `json:"pending_friend_requests"`
	UnreadRecommendations int `json:"unread_recommendations"`
	UnreadMessages        int `json:"unread_messages"`
	Total                 int `json:"total"`
}

// Reduce builds Counts from per-query values. Missing queries count as zero.
func Reduce(values map[string]int) Counts {
	c := Counts{
		PendingFriendRequests: values[QueryFriendRequests],
		UnreadRecommendations: values[QueryRecommendations],
		UnreadMessages:        values[QueryMessages],
	}
	c.Total = c.PendingFriendRequests + c.UnreadRecommendations + c.UnreadMessages
	return c
}
