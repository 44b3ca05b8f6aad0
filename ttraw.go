// Package ttraw provides a typed Go client for the TikTok Research API with
// OAuth2 client-credentials authentication.
//
// The client handles token acquisition, disk-backed token caching,
// expiry-aware refresh, request validation and response classification
// automatically. Queries against the video search endpoint are built with a
// validated condition builder.
//
// Basic usage:
//
//	config := &ttraw.Config{
//		ClientKey:    "your-client-key",
//		ClientSecret: "your-client-secret",
//	}
//
//	client, err := ttraw.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := client.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := client.UserInfo(ctx, "some_username", []types.UserInfoField{
//		types.UserInfoFieldDisplayName,
//		types.UserInfoFieldFollowerCount,
//	})
package ttraw

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ttraw/go-tiktok-api-wrapper/internal"
	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
	"github.com/ttraw/go-tiktok-api-wrapper/pkg/types"
)

const (
	// DefaultBaseURL is the default Research API base URL.
	DefaultBaseURL = "https://open.tiktokapis.com/v2/"
	// DefaultTokenCachePath is where the token record is persisted between
	// process runs unless the config overrides it.
	DefaultTokenCachePath = "tiktok_token.json"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Endpoint paths, relative to the base URL.
const (
	userInfoPath           = "research/user/info/"
	userLikedVideosPath    = "research/user/liked_videos/"
	userPinnedVideosPath   = "research/user/pinned_videos/"
	userRepostedVideosPath = "research/user/reposted_videos/"
	userFollowersPath      = "research/user/followers/"
	userFollowingPath      = "research/user/following/"
	videoQueryPath         = "research/video/query/"
	videoCommentsPath      = "research/video/comment/list/"
	playlistInfoPath       = "research/playlist/info/"
)

// Config holds the configuration for the Research API client.
type Config struct {
	// ClientKey and ClientSecret for the OAuth2 client-credentials grant.
	// Required. Obtain these from the TikTok developer portal.
	ClientKey    string
	ClientSecret string

	// BaseURL for the Research API.
	// Defaults to DefaultBaseURL if not specified. The token endpoint is
	// resolved relative to it.
	BaseURL string

	// TokenCachePath is the file the token record is persisted to.
	// Defaults to DefaultTokenCachePath. Set DisableTokenCache to skip
	// persistence entirely.
	TokenCachePath    string
	DisableTokenCache bool

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified. The
	// transport owns all timeout behavior; no cancellation is imposed
	// beyond the caller's context.
	HTTPClient *http.Client

	// Logger for structured diagnostics.
	// Optional. If nil, diagnostics are discarded.
	Logger *log.Logger
}

// Client is the main Research API client. All resource methods require the
// client to be connected first; Connect is also invoked lazily on the first
// call.
type Client struct {
	http *internal.Client
	auth *internal.Authenticator

	connectOnce sync.Once
	connectErr  error
}

// NewClient creates a new Research API client with the provided
// configuration. It validates the configuration and sets up the token
// manager, but performs no network I/O; call Connect to authenticate.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}
	if config.ClientKey == "" {
		return nil, &pkgerrs.ConfigError{Field: "ClientKey", Message: "client key is required"}
	}
	if config.ClientSecret == "" {
		return nil, &pkgerrs.ConfigError{Field: "ClientSecret", Message: "client secret is required"}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	var store internal.TokenStore
	if !config.DisableTokenCache {
		cachePath := config.TokenCachePath
		if cachePath == "" {
			cachePath = DefaultTokenCachePath
		}
		store = internal.NewFileTokenStore(cachePath)
	}

	auth, err := internal.NewAuthenticator(httpClient, config.ClientKey, config.ClientSecret, baseURL, "", store, config.Logger)
	if err != nil {
		return nil, err
	}

	apiClient, err := internal.NewClient(httpClient, auth, baseURL, config.Logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		http: apiClient,
		auth: auth,
	}, nil
}

// Connect performs the initial token acquisition. It is safe to call
// Connect multiple times; the work happens only once. A failed connect is
// terminal for this client instance: reconstruct the client to retry.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		c.connectErr = c.auth.Authenticate(ctx)
	})
	return c.connectErr
}

// ensureConnected lazily authenticates before handling a request.
func (c *Client) ensureConnected(ctx context.Context) error {
	return c.Connect(ctx)
}

// UserInfo retrieves profile information for a user. fields selects which
// attributes of the profile are populated.
func (c *Client) UserInfo(ctx context.Context, username string, fields []types.UserInfoField) (*types.UserInfo, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	req := &types.UserInfoRequest{Username: username}
	return internal.Execute[types.UserInfo](ctx, c.http, userInfoPath, fieldParams(fields), req)
}

// UserLikedVideos retrieves videos liked by a user, newest first. The
// request's Cursor and MaxCount control pagination.
func (c *Client) UserLikedVideos(ctx context.Context, req *types.UserVideosRequest, fields []types.UserVideoField) (*types.LikedVideosData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.LikedVideosData](ctx, c.http, userLikedVideosPath, fieldParams(fields), req)
}

// UserPinnedVideos retrieves the videos a user has pinned to their profile.
func (c *Client) UserPinnedVideos(ctx context.Context, username string, fields []types.UserVideoField) (*types.PinnedVideosData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	req := &types.UserInfoRequest{Username: username}
	return internal.Execute[types.PinnedVideosData](ctx, c.http, userPinnedVideosPath, fieldParams(fields), req)
}

// UserRepostedVideos retrieves videos reposted by a user.
func (c *Client) UserRepostedVideos(ctx context.Context, req *types.UserVideosRequest, fields []types.UserVideoField) (*types.RepostedVideosData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.RepostedVideosData](ctx, c.http, userRepostedVideosPath, fieldParams(fields), req)
}

// UserFollowers retrieves the followers of a user.
func (c *Client) UserFollowers(ctx context.Context, req *types.UserFollowRequest) (*types.FollowersData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.FollowersData](ctx, c.http, userFollowersPath, nil, req)
}

// UserFollowing retrieves the users a user follows.
func (c *Client) UserFollowing(ctx context.Context, req *types.UserFollowRequest) (*types.FollowingData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.FollowingData](ctx, c.http, userFollowingPath, nil, req)
}

// SearchVideos runs a video query. Build the request with
// types.NewVideoSearchRequestBuilder; the query tree, date window and count
// bounds are validated before anything is sent.
func (c *Client) SearchVideos(ctx context.Context, req *types.VideoSearchRequest, fields []types.VideoField) (*types.VideoSearchData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.VideoSearchData](ctx, c.http, videoQueryPath, fieldParams(fields), req)
}

// VideoComments retrieves comments on a video.
func (c *Client) VideoComments(ctx context.Context, req *types.VideoCommentsRequest, fields []types.CommentField) (*types.CommentListData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, &pkgerrs.ValidationError{Message: "request cannot be nil"}
	}

	return internal.Execute[types.CommentListData](ctx, c.http, videoCommentsPath, fieldParams(fields), req)
}

// PlaylistInfo retrieves metadata for a playlist. cursor resumes a previous
// listing; pass zero to start from the beginning.
func (c *Client) PlaylistInfo(ctx context.Context, playlistID int64, cursor int64) (*types.PlaylistData, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	req := &types.PlaylistInfoRequest{PlaylistID: playlistID, Cursor: cursor}
	return internal.Execute[types.PlaylistData](ctx, c.http, playlistInfoPath, nil, req)
}

// fieldParams converts a typed field list to the strings joined into the
// "fields" query parameter.
func fieldParams[T ~string](fields []T) []string {
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
