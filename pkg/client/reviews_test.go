package client

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Milesbeckerle/mercado-livre-api/internal/testutil"
)

func TestFetchReviews_Success(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	raw1 := `{"rate":5,"title":"Excelente","content":"Chegou rápido.","likes":12}`
	raw2 := `{"rate":1,"title":"Ruim","nested":{"a":[1,2,3]}}`
	mock.SetResponse(testutil.ReviewsPath("MLB1"), testutil.NewReviewsResponse(raw1, raw2))

	client := newMockClient(t, mock)
	reviews, warning := client.FetchReviews(context.Background(), "MLB1")

	if warning != "" {
		t.Errorf("warning = %q, want empty", warning)
	}
	if len(reviews) != 2 {
		t.Fatalf("Expected 2 reviews, got %d", len(reviews))
	}

	// Review objects pass through byte for byte
	if string(reviews[0]) != raw1 {
		t.Errorf("reviews[0] = %s, want %s", reviews[0], raw1)
	}
	if string(reviews[1]) != raw2 {
		t.Errorf("reviews[1] = %s, want %s", reviews[1], raw2)
	}
}

func TestFetchReviews_ForbiddenOrUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		mock := testutil.NewMockMarketplace()
		mock.SetResponse(testutil.ReviewsPath("MLB1"),
			testutil.NewErrorResponse(status, "no access"))

		client := newMockClient(t, mock)
		reviews, warning := client.FetchReviews(context.Background(), "MLB1")

		if warning != "reviews for item MLB1: forbidden_or_unauthorized" {
			t.Errorf("status %d: warning = %q, want forbidden_or_unauthorized", status, warning)
		}
		if len(reviews) != 0 {
			t.Errorf("status %d: expected 0 reviews, got %d", status, len(reviews))
		}

		mock.Close()
	}
}

func TestFetchReviews_NotFoundIsSilent(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	// The default handler answers 404 for unconfigured paths
	client := newMockClient(t, mock)
	reviews, warning := client.FetchReviews(context.Background(), "MLB1")

	if warning != "" {
		t.Errorf("warning = %q, want empty for 404", warning)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("reviews = %v, want empty non-nil slice", reviews)
	}
	if count := mock.RequestCount(testutil.ReviewsPath("MLB1")); count != 1 {
		t.Errorf("Expected 1 upstream request (404 not retried), got %d", count)
	}
}

func TestFetchReviews_RateLimitedAfterRetries(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	mock.SetResponse(testutil.ReviewsPath("MLB1"),
		testutil.NewErrorResponse(http.StatusTooManyRequests, "slow down"))

	client := newMockClient(t, mock)
	reviews, warning := client.FetchReviews(context.Background(), "MLB1")

	if warning != "reviews for item MLB1: rate_limited" {
		t.Errorf("warning = %q, want rate_limited", warning)
	}
	if len(reviews) != 0 {
		t.Errorf("Expected 0 reviews, got %d", len(reviews))
	}
	if count := mock.RequestCount(testutil.ReviewsPath("MLB1")); count != 3 {
		t.Errorf("Expected 3 upstream requests (429 is retried), got %d", count)
	}
}

func TestFetchReviews_OtherHTTPError(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	mock.SetResponse(testutil.ReviewsPath("MLB1"),
		testutil.NewErrorResponse(http.StatusTeapot, "short and stout"))

	client := newMockClient(t, mock)
	_, warning := client.FetchReviews(context.Background(), "MLB1")

	if warning != "reviews for item MLB1: erro 418" {
		t.Errorf("warning = %q, want erro 418", warning)
	}
}

func TestFetchReviews_NetworkError(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	client := newMockClient(t, mock)

	// Upstream gone entirely
	mock.Close()

	reviews, warning := client.FetchReviews(context.Background(), "MLB1")

	if !strings.HasPrefix(warning, "reviews for item MLB1: network_error:") {
		t.Errorf("warning = %q, want network_error prefix", warning)
	}
	if reviews == nil || len(reviews) != 0 {
		t.Errorf("reviews = %v, want empty non-nil slice", reviews)
	}
}

func TestFetchReviews_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "reviews field is an object",
			body: `{"reviews":{"rate":5}}`,
		},
		{
			name: "reviews field missing",
			body: `{"paging":{"total":0}}`,
		},
		{
			name: "reviews field null",
			body: `{"reviews":null}`,
		},
		{
			name: "body is not json",
			body: `<html>oops</html>`,
		},
		{
			name: "body is empty",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockMarketplace()
			defer mock.Close()

			mock.SetResponse(testutil.ReviewsPath("MLB1"), testutil.MockResponse{
				StatusCode: http.StatusOK,
				Body:       tt.body,
			})

			client := newMockClient(t, mock)
			reviews, warning := client.FetchReviews(context.Background(), "MLB1")

			// A malformed 2xx payload degrades to the empty state silently
			if warning != "" {
				t.Errorf("warning = %q, want empty", warning)
			}
			if reviews == nil || len(reviews) != 0 {
				t.Errorf("reviews = %v, want empty non-nil slice", reviews)
			}
		})
	}
}

func TestFetchReviews_RecoversAfterRetryableStatus(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	raw := `{"rate":4}`
	mock.SetResponseSequence(testutil.ReviewsPath("MLB1"),
		testutil.NewErrorResponse(http.StatusServiceUnavailable, "maintenance"),
		testutil.NewReviewsResponse(raw),
	)

	client := newMockClient(t, mock)
	reviews, warning := client.FetchReviews(context.Background(), "MLB1")

	if warning != "" {
		t.Errorf("warning = %q, want empty after recovery", warning)
	}
	if len(reviews) != 1 || string(reviews[0]) != raw {
		t.Errorf("reviews = %v, want [%s]", reviews, raw)
	}
	if count := mock.RequestCount(testutil.ReviewsPath("MLB1")); count != 2 {
		t.Errorf("Expected 2 upstream requests, got %d", count)
	}
}

func TestFetchReviews_Cancelled(t *testing.T) {
	mock := testutil.NewMockMarketplace()
	defer mock.Close()

	mock.SetResponse(testutil.ReviewsPath("MLB1"), testutil.NewReviewsResponse(`{"rate":5}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newMockClient(t, mock)
	reviews, warning := client.FetchReviews(ctx, "MLB1")

	if len(reviews) != 0 {
		t.Errorf("reviews = %v, want empty", reviews)
	}
	if want := "reviews for item MLB1: cancelled"; warning != want {
		t.Errorf("warning = %q, want %q", warning, want)
	}
	if count := mock.TotalRequests(); count != 0 {
		t.Errorf("Expected 0 upstream requests, got %d", count)
	}
}
