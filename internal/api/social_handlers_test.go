package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfdapp/shelfd-server/internal/domain"
)

func TestFollow_CreatesEdge(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "f-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "f-ben@example.com", "Ben")

	resp := ts.request(t, http.MethodPost, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[FollowResponse](t, resp)
	require.True(t, env.Success)
	assert.Equal(t, ana.User.ID, env.Data.FollowerID)
	assert.Equal(t, ben.User.ID, env.Data.FolloweeID)

	// Following twice is a conflict.
	resp = ts.request(t, http.MethodPost, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// The reverse direction is a separate edge.
	resp = ts.request(t, http.MethodPost, "/api/v1/follows/"+ana.User.ID, nil, ben.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestFollow_SelfRejected(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "self@example.com", "Ana")

	resp := ts.request(t, http.MethodPost, "/api/v1/follows/"+ana.User.ID, nil, ana.AccessToken)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnfollow_MissingEdge(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "u-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "u-ben@example.com", "Ben")

	// Nothing to remove yet.
	resp := ts.request(t, http.MethodDelete, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.request(t, http.MethodPost, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.request(t, http.MethodDelete, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// The edge is gone now.
	resp = ts.request(t, http.MethodDelete, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFollowers_Resolution(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "fl-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "fl-ben@example.com", "Ben")
	cal := ts.registerAndLogin(t, "fl-cal@example.com", "Cal")

	for _, follower := range []AuthResponse{ben, cal} {
		resp := ts.request(t, http.MethodPost, "/api/v1/follows/"+ana.User.ID, nil, follower.AccessToken)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.request(t, http.MethodGet, "/api/v1/users/"+ana.User.ID+"/followers", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[[]UserResponse](t, resp)
	require.True(t, env.Success)
	assert.Len(t, env.Data, 2)

	// Follower payloads never leak emails.
	for _, u := range env.Data {
		assert.Empty(t, u.Email)
	}

	resp = ts.request(t, http.MethodGet, "/api/v1/users/"+ben.User.ID+"/following", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	env = decodeEnvelope[[]UserResponse](t, resp)
	require.Len(t, env.Data, 1)
	assert.Equal(t, ana.User.ID, env.Data[0].ID)
}

// postReview creates a review over HTTP and returns it.
func (ts *testServer) postReview(t *testing.T, token, kind, identifier string, rating int) domain.Review {
	t.Helper()

	resp := ts.request(t, http.MethodPost, "/api/v1/reviews", map[string]any{
		"kind":       kind,
		"identifier": identifier,
		"rating":     rating,
	}, token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[domain.Review](t, resp)
	require.True(t, env.Success)
	return env.Data
}

func TestSocialFeed_MergesFollowedActivity(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "feed-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "feed-ben@example.com", "Ben")
	cal := ts.registerAndLogin(t, "feed-cal@example.com", "Cal")
	ts.seedMovie("tm550", "Fight Club")
	ts.seedMovie("tm680", "Pulp Fiction")

	// Ana follows Ben but not Cal.
	resp := ts.request(t, http.MethodPost, "/api/v1/follows/"+ben.User.ID, nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	ts.postReview(t, ben.AccessToken, "movie", "tm550", 9)
	ts.postReview(t, cal.AccessToken, "movie", "tm680", 7)

	resp = ts.request(t, http.MethodGet, "/api/v1/feed?type=review_created", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ListResult](t, resp)
	require.True(t, env.Success)
	require.Equal(t, 1, env.Data.Total, "only followed users' reviews appear")
	assert.Equal(t, ben.User.ID, env.Data.Items[0]["user_id"])
}

func TestGlobalFeed_IncludesEveryone(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "gf-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "gf-ben@example.com", "Ben")
	ts.seedMovie("tm550", "Fight Club")

	ts.postReview(t, ben.AccessToken, "movie", "tm550", 9)

	resp := ts.request(t, http.MethodGet, "/api/v1/feed/global?type=review_created", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[ListResult](t, resp)
	require.True(t, env.Success)
	assert.Equal(t, 1, env.Data.Total)
}

func TestToggleLike_Flips(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "like-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "like-ben@example.com", "Ben")
	ts.seedMovie("tm550", "Fight Club")

	ts.postReview(t, ben.AccessToken, "movie", "tm550", 9)

	// Find the review activity on the global feed.
	resp := ts.request(t, http.MethodGet, "/api/v1/feed/global?type=review_created", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	feed := decodeEnvelope[ListResult](t, resp)
	require.NotEmpty(t, feed.Data.Items)
	activityID, ok := feed.Data.Items[0]["id"].(string)
	require.True(t, ok)

	resp = ts.request(t, http.MethodPost, "/api/v1/activities/"+activityID+"/like", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	like := decodeEnvelope[LikeResponse](t, resp)
	assert.True(t, like.Data.Liked)
	assert.Equal(t, 1, like.Data.LikeCount)

	// Toggling again removes the like.
	resp = ts.request(t, http.MethodPost, "/api/v1/activities/"+activityID+"/like", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	like = decodeEnvelope[LikeResponse](t, resp)
	assert.False(t, like.Data.Liked)
	assert.Equal(t, 0, like.Data.LikeCount)
}

func TestComments_Lifecycle(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ana := ts.registerAndLogin(t, "c-ana@example.com", "Ana")
	ben := ts.registerAndLogin(t, "c-ben@example.com", "Ben")
	ts.seedMovie("tm550", "Fight Club")

	ts.postReview(t, ben.AccessToken, "movie", "tm550", 9)

	resp := ts.request(t, http.MethodGet, "/api/v1/feed/global?type=review_created", nil, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	feed := decodeEnvelope[ListResult](t, resp)
	require.NotEmpty(t, feed.Data.Items)
	activityID, ok := feed.Data.Items[0]["id"].(string)
	require.True(t, ok)

	// Blank comments are rejected.
	resp = ts.request(t, http.MethodPost, "/api/v1/activities/"+activityID+"/comments", map[string]any{
		"text": "   ",
	}, ana.AccessToken)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.request(t, http.MethodPost, "/api/v1/activities/"+activityID+"/comments", map[string]any{
		"text": "great pick",
	}, ana.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	comment := decodeEnvelope[domain.Comment](t, resp)
	assert.Equal(t, "great pick", comment.Data.Text)
	assert.Equal(t, ana.User.ID, comment.Data.UserID)

	commentPath := "/api/v1/activities/" + activityID + "/comments/" + comment.Data.ID

	// Ben owns the activity, so he may delete Ana's comment.
	resp = ts.request(t, http.MethodDelete, commentPath, nil, ben.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Deleting again reads as not found.
	resp = ts.request(t, http.MethodDelete, commentPath, nil, ana.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
