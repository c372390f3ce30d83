package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TrackUserRequest struct {
	ExternalID string `json:"external_id"`
	Username   string `json:"username"`
	IsPremium  bool   `json:"is_premium"`
}

type ApplyDeltaRequest struct {
	Delta int `json:"delta"`
}

type SetManualDeltaRequest struct {
	Delta float64 `json:"delta"`
}

type SetTrustFlagRequest struct {
	Value bool `json:"value"`
}

type RecordProfileViewRequest struct {
	ViewerUserID string `json:"viewer_user_id"`
}

type RatingDTO struct {
	Auto          float64 `json:"auto"`
	ManualDelta   float64 `json:"manual_delta"`
	Total         float64 `json:"total"`
	DealsScore    float64 `json:"deals_score"`
	TenureScore   float64 `json:"tenure_score"`
	ActivityScore float64 `json:"activity_score"`
	TrustBonus    float64 `json:"trust_bonus"`
}

type CountersDTO struct {
	AdsActive         int `json:"ads_active"`
	AdsCompleted      int `json:"ads_completed"`
	AdsHidden         int `json:"ads_hidden"`
	DealsTotal        int `json:"deals_total"`
	DealsSuccessful   int `json:"deals_successful"`
	DealsDisputed     int `json:"deals_disputed"`
	ProfileViewsWeek  int `json:"profile_views_week"`
	ProfileViewsMonth int `json:"profile_views_month"`
}

type UserProfileDTO struct {
	UserID     string      `json:"user_id"`
	ExternalID string      `json:"external_id"`
	Username   string      `json:"username,omitempty"`
	Verified   bool        `json:"verified"`
	IsScam     bool        `json:"is_scam"`
	IsBlocked  bool        `json:"is_blocked"`
	IsPremium  bool        `json:"is_premium"`
	Rating     RatingDTO   `json:"rating"`
	Counters   CountersDTO `json:"counters"`
	CreatedAt  string      `json:"created_at"`
}

type ProfileResponse struct {
	Profile UserProfileDTO `json:"profile"`
}

type CountersResponse struct {
	UserID   string      `json:"user_id"`
	Counters CountersDTO `json:"counters"`
}

type LeaderboardEntryDTO struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	Username        string  `json:"username,omitempty"`
	TotalRating     float64 `json:"total_rating"`
	DealsSuccessful int     `json:"deals_successful"`
}

type LeaderboardResponse struct {
	Entries    []LeaderboardEntryDTO `json:"entries"`
	NextCursor string                `json:"next_cursor,omitempty"`
}
