package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GraphBaseURL points at the Facebook Graph API. Tests swap it for a
// local server.
var GraphBaseURL = "https://graph.facebook.com"

var graphClient = &http.Client{Timeout: 10 * time.Second}

type GraphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api error %d: %s", e.Code, e.Message)
}

type graphAccount struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type graphAccountsResponse struct {
	Data  []graphAccount `json:"data"`
	Error *GraphError    `json:"error"`
}

type graphFeedRequest struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type graphFeedResponse struct {
	ID    string      `json:"id"`
	Error *GraphError `json:"error"`
}

// PageResult is what a successful post returns: the created post id plus
// the page it landed on.
type PageResult struct {
	PostID   string `json:"postId"`
	PageID   string `json:"pageId"`
	PageName string `json:"pageName"`
}

// ErrPageNotFound means the configured page id is not among the pages the
// user token manages.
var ErrPageNotFound = fmt.Errorf("facebook page not found for this token")

// PostToPage publishes a message on the configured Facebook page. The
// configured token is a user token, so the page access token is fetched
// first via /me/accounts, then the post goes to /{page}/feed.
func PostToPage(ctx context.Context, pageID, userToken, message string) (*PageResult, []byte, error) {
	account, err := fetchPageAccount(ctx, pageID, userToken)

	if err != nil {
		return nil, nil, err
	}

	body, err := json.Marshal(graphFeedRequest{
		Message:     message,
		AccessToken: account.AccessToken,
	})

	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal feed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/feed", GraphBaseURL, url.PathEscape(pageID)), bytes.NewBuffer(body))

	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := graphClient.Do(req)

	if err != nil {
		return nil, nil, fmt.Errorf("failed to post to page feed: %w", err)
	}
	defer resp.Body.Close()

	var feed graphFeedResponse
	raw := new(bytes.Buffer)

	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return nil, nil, err
	}

	if err := json.Unmarshal(raw.Bytes(), &feed); err != nil {
		return nil, raw.Bytes(), fmt.Errorf("unexpected feed response: %w", err)
	}

	if feed.Error != nil {
		return nil, raw.Bytes(), feed.Error
	}

	return &PageResult{
		PostID:   feed.ID,
		PageID:   account.ID,
		PageName: account.Name,
	}, raw.Bytes(), nil
}

func fetchPageAccount(ctx context.Context, pageID, userToken string) (*graphAccount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/me/accounts?access_token=%s", GraphBaseURL, url.QueryEscape(userToken)), nil)

	if err != nil {
		return nil, err
	}

	resp, err := graphClient.Do(req)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch page accounts: %w", err)
	}
	defer resp.Body.Close()

	var accounts graphAccountsResponse

	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("unexpected accounts response: %w", err)
	}

	if accounts.Error != nil {
		return nil, accounts.Error
	}

	for _, account := range accounts.Data {
		if account.ID == pageID {
			return &account, nil
		}
	}

	return nil, ErrPageNotFound
}
