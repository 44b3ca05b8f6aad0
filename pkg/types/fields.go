package types

// VideoField identifies a video attribute that can be requested through the
// "fields" query parameter of the video search endpoint.
type VideoField string

const (
	VideoFieldID               VideoField = "id"
	VideoFieldVideoDescription VideoField = "video_description"
	VideoFieldCreateTime       VideoField = "create_time"
	VideoFieldRegionCode       VideoField = "region_code"
	VideoFieldShareCount       VideoField = "share_count"
	VideoFieldViewCount        VideoField = "view_count"
	VideoFieldLikeCount        VideoField = "like_count"
	VideoFieldCommentCount     VideoField = "comment_count"
	VideoFieldMusicID          VideoField = "music_id"
	VideoFieldHashtagNames     VideoField = "hashtag_names"
	VideoFieldUsername         VideoField = "username"
	VideoFieldEffectIDs        VideoField = "effect_ids"
	VideoFieldPlaylistID       VideoField = "playlist_id"
	VideoFieldVoiceToText      VideoField = "voice_to_text"
	VideoFieldIsSTEMVerified   VideoField = "is_stem_verified"
	VideoFieldFavoritesCount   VideoField = "favorites_count"
	VideoFieldVideoDuration    VideoField = "video_duration"
)

// UserInfoField identifies a user attribute that can be requested from the
// user info endpoint.
type UserInfoField string

const (
	UserInfoFieldDisplayName    UserInfoField = "display_name"
	UserInfoFieldBioDescription UserInfoField = "bio_description"
	UserInfoFieldAvatarURL      UserInfoField = "avatar_url"
	UserInfoFieldIsVerified     UserInfoField = "is_verified"
	UserInfoFieldFollowerCount  UserInfoField = "follower_count"
	UserInfoFieldFollowingCount UserInfoField = "following_count"
	UserInfoFieldLikesCount     UserInfoField = "likes_count"
	UserInfoFieldVideoCount     UserInfoField = "video_count"
)

// UserVideoField identifies a video attribute available on the liked, pinned
// and reposted video endpoints. The set is narrower than VideoField: those
// endpoints do not expose effect IDs, playlist IDs or voice-to-text.
type UserVideoField string

const (
	UserVideoFieldID               UserVideoField = "id"
	UserVideoFieldCreateTime       UserVideoField = "create_time"
	UserVideoFieldUsername         UserVideoField = "username"
	UserVideoFieldRegionCode       UserVideoField = "region_code"
	UserVideoFieldVideoDescription UserVideoField = "video_description"
	UserVideoFieldMusicID          UserVideoField = "music_id"
	UserVideoFieldLikeCount        UserVideoField = "like_count"
	UserVideoFieldCommentCount     UserVideoField = "comment_count"
	UserVideoFieldShareCount       UserVideoField = "share_count"
	UserVideoFieldViewCount        UserVideoField = "view_count"
	UserVideoFieldHashtagNames     UserVideoField = "hashtag_names"
	UserVideoFieldVideoDuration    UserVideoField = "video_duration"
	UserVideoFieldIsSTEMVerified   UserVideoField = "is_stem_verified"
	UserVideoFieldFavoritesCount   UserVideoField = "favorites_count"
)

// CommentField identifies a comment attribute available on the video comment
// list endpoint.
type CommentField string

const (
	CommentFieldID              CommentField = "id"
	CommentFieldVideoID         CommentField = "video_id"
	CommentFieldText            CommentField = "text"
	CommentFieldLikeCount       CommentField = "like_count"
	CommentFieldReplyCount      CommentField = "reply_count"
	CommentFieldParentCommentID CommentField = "parent_comment_id"
	CommentFieldCreateTime      CommentField = "create_time"
)

// VideoLength is a named duration bucket accepted by video_duration
// conditions.
type VideoLength string

const (
	VideoLengthShort     VideoLength = "SHORT"      // less than 15 seconds
	VideoLengthMid       VideoLength = "MID"        // 15 to 60 seconds
	VideoLengthLong      VideoLength = "LONG"       // 1 to 5 minutes
	VideoLengthExtraLong VideoLength = "EXTRA_LONG" // longer than 5 minutes
)

// IsValidVideoLength reports whether s names one of the duration buckets.
func IsValidVideoLength(s string) bool {
	switch VideoLength(s) {
	case VideoLengthShort, VideoLengthMid, VideoLengthLong, VideoLengthExtraLong:
		return true
	}
	return false
}
