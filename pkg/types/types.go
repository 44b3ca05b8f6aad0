// Package types holds the request and response models, field enumerations
// and query-building blocks for the TikTok Research API.
package types

// ResponseError is the error object embedded in every Research API response
// envelope. A code of "ok" indicates success.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

// Video holds the metadata of a single video. Only the fields requested via
// the "fields" query parameter are populated; everything else is left at its
// zero value.
type Video struct {
	ID               int64    `json:"id"`
	CreateTime       int64    `json:"create_time"`
	Username         string   `json:"username"`
	RegionCode       string   `json:"region_code"`
	VideoDescription string   `json:"video_description"`
	MusicID          int64    `json:"music_id"`
	LikeCount        int64    `json:"like_count"`
	CommentCount     int64    `json:"comment_count"`
	ShareCount       int64    `json:"share_count"`
	ViewCount        int64    `json:"view_count"`
	EffectIDs        []string `json:"effect_ids"`
	HashtagNames     []string `json:"hashtag_names"`
	PlaylistID       int64    `json:"playlist_id"`
	VoiceToText      string   `json:"voice_to_text"`
	IsSTEMVerified   bool     `json:"is_stem_verified"`
	VideoDuration    int64    `json:"video_duration"`
	FavoritesCount   int64    `json:"favorites_count"`
}

// Comment holds the metadata of a single video comment.
type Comment struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	VideoID         int64  `json:"video_id"`
	ParentCommentID int64  `json:"parent_comment_id"`
	LikeCount       int64  `json:"like_count"`
	ReplyCount      int64  `json:"reply_count"`
	CreateTime      int64  `json:"create_time"`
}

// UserInfo holds the profile data of a user.
type UserInfo struct {
	DisplayName    string `json:"display_name"`
	BioDescription string `json:"bio_description"`
	AvatarURL      string `json:"avatar_url"`
	IsVerified     bool   `json:"is_verified"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
	VideoCount     int64  `json:"video_count"`
	LikesCount     int64  `json:"likes_count"`
}

// UserFollow is one entry in a follower or following list.
type UserFollow struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// UserInfoRequest is the payload of the user info endpoint.
type UserInfoRequest struct {
	Username string `json:"username" validate:"required"`
}

// UserVideosRequest is the payload of the liked and reposted video
// endpoints. Cursor is a Unix timestamp in UTC seconds; zero means "now".
type UserVideosRequest struct {
	Username string `json:"username" validate:"required"`
	MaxCount int    `json:"max_count,omitempty" validate:"omitempty,gte=1,lte=100"`
	Cursor   int64  `json:"cursor,omitempty" validate:"omitempty,gte=0"`
}

// UserFollowRequest is the payload of the follower and following endpoints.
type UserFollowRequest struct {
	Username string `json:"username" validate:"required"`
	MaxCount int    `json:"max_count,omitempty" validate:"omitempty,gte=1,lte=100"`
	Cursor   int64  `json:"cursor,omitempty" validate:"omitempty,gte=0"`
}

// VideoCommentsRequest is the payload of the video comment list endpoint.
type VideoCommentsRequest struct {
	VideoID  int64 `json:"video_id" validate:"required,gt=0"`
	MaxCount int   `json:"max_count,omitempty" validate:"omitempty,gte=1,lte=100"`
	Cursor   int64 `json:"cursor,omitempty" validate:"omitempty,gte=0"`
}

// PlaylistInfoRequest is the payload of the playlist info endpoint.
type PlaylistInfoRequest struct {
	PlaylistID int64 `json:"playlist_id" validate:"required,gt=0"`
	Cursor     int64 `json:"cursor,omitempty" validate:"omitempty,gte=0"`
}

// VideoSearchData is the data object of a video search response.
type VideoSearchData struct {
	Videos   []Video `json:"videos"`
	Cursor   int64   `json:"cursor"`
	HasMore  bool    `json:"has_more"`
	SearchID string  `json:"search_id"`
}

// CommentListData is the data object of a video comment list response.
type CommentListData struct {
	Comments []Comment `json:"comments"`
	Cursor   int64     `json:"cursor"`
	HasMore  bool      `json:"has_more"`
}

// LikedVideosData is the data object of a liked videos response.
type LikedVideosData struct {
	UserLikedVideos []Video `json:"user_liked_videos"`
	Cursor          int64   `json:"cursor"`
	HasMore         bool    `json:"has_more"`
}

// PinnedVideosData is the data object of a pinned videos response. Pinned
// videos are a fixed, small set, so the endpoint does not paginate.
type PinnedVideosData struct {
	PinnedVideosList []Video `json:"pinned_videos_list"`
}

// RepostedVideosData is the data object of a reposted videos response.
type RepostedVideosData struct {
	RepostedVideos []Video `json:"reposted_videos"`
	Cursor         int64   `json:"cursor"`
	HasMore        bool    `json:"has_more"`
}

// FollowersData is the data object of a followers response.
type FollowersData struct {
	UserFollowers []UserFollow `json:"user_followers"`
	Cursor        int64        `json:"cursor"`
	HasMore       bool         `json:"has_more"`
}

// FollowingData is the data object of a following response.
type FollowingData struct {
	UserFollowing []UserFollow `json:"user_following"`
	Cursor        int64        `json:"cursor"`
	HasMore       bool         `json:"has_more"`
}

// PlaylistData is the data object of a playlist info response.
type PlaylistData struct {
	PlaylistID          int64   `json:"playlist_id"`
	PlaylistItemTotal   int64   `json:"playlist_item_total"`
	PlaylistLastUpdated int64   `json:"playlist_last_updated"`
	PlaylistName        string  `json:"playlist_name"`
	PlaylistVideoIDs    []int64 `json:"playlist_video_ids"`
}
