package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticToken() *tokenSource {
	return &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return "token", time.Now().Add(time.Hour), nil
	}}
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestPutUploadsMedia(t *testing.T) {
	t.Parallel()

	var gotBody string
	client := &Client{
		defaultBucket: "wmb-uploads",
		tokenSource:   staticToken(),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", req.Method)
			}
			if req.URL.Path != "/upload/storage/v1/b/wmb-uploads/o" {
				t.Errorf("unexpected path %s", req.URL.Path)
			}
			if req.URL.Query().Get("name") != "enquiries/e1/1-logo.png" {
				t.Errorf("unexpected object name %s", req.URL.Query().Get("name"))
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Errorf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "image/png" {
				t.Errorf("unexpected content type %s", req.Header.Get("Content-Type"))
			}
			b, _ := io.ReadAll(req.Body)
			gotBody = string(b)
			return response(http.StatusOK, `{"name":"enquiries/e1/1-logo.png","size":"4"}`)
		})},
	}

	obj, err := client.Put(context.Background(), "enquiries/e1/1-logo.png", "image/png", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if gotBody != "data" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if obj.URL != "https://storage.googleapis.com/wmb-uploads/enquiries/e1/1-logo.png" {
		t.Fatalf("unexpected url %s", obj.URL)
	}
	if obj.Size != 4 {
		t.Fatalf("unexpected size %d", obj.Size)
	}
}

func TestPutFailureIncludesStatus(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		tokenSource:   staticToken(),
		httpClient: &http.Client{Transport: roundTripFunc(func(*http.Request) *http.Response {
			return response(http.StatusForbidden, "no access")
		})},
	}
	_, err := client.Put(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "no access") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestObjectURLUsesPublicBase(t *testing.T) {
	client := &Client{defaultBucket: "bucket", publicBase: "https://cdn.wmbgolfco.com/"}
	if got := client.ObjectURL("logos/a.png"); got != "https://cdn.wmbgolfco.com/logos/a.png" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestDeleteObjectSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		tokenSource:   staticToken(),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", req.Method)
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Errorf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			return response(http.StatusNoContent, "")
		})},
	}

	if err := client.Delete(context.Background(), "media/file.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDeleteObjectNotFound(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "bucket",
		tokenSource:   staticToken(),
		httpClient: &http.Client{Transport: roundTripFunc(func(*http.Request) *http.Response {
			return response(http.StatusNotFound, "")
		})},
	}

	if err := client.Delete(context.Background(), "media/file.png"); err != nil {
		t.Fatalf("Delete not found should succeed: %v", err)
	}
}

func TestPingRequiresBucket(t *testing.T) {
	client := &Client{tokenSource: staticToken()}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error without bucket")
	}
	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		calls++
		return "tok", time.Now().Add(time.Hour), nil
	}}
	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("token: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
}

func TestServiceAccountTokenExchange(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	creds, _ := json.Marshal(map[string]string{
		"client_email": "uploader@wmb.iam.gserviceaccount.com",
		"private_key":  string(pemKey),
		"token_uri":    "https://oauth.test/token",
	})

	httpClient := &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
		b, _ := io.ReadAll(req.Body)
		form, _ := url.ParseQuery(string(b))
		if form.Get("grant_type") != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("unexpected grant type %q", form.Get("grant_type"))
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(form.Get("assertion"), claims, func(tok *jwt.Token) (any, error) {
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		if err != nil {
			t.Errorf("verify assertion: %v", err)
			return response(http.StatusBadRequest, "")
		}
		if claims["aud"] != "https://oauth.test/token" || claims["scope"] != scope {
			t.Errorf("unexpected claims %v", claims)
		}
		return response(http.StatusOK, `{"access_token":"sa-token","expires_in":3600}`)
	})}

	ts, err := newServiceAccountTokenSource(httpClient, string(creds))
	if err != nil {
		t.Fatalf("token source: %v", err)
	}
	tok, err := ts.Token(context.Background())
	if err != nil || tok != "sa-token" {
		t.Fatalf("unexpected token %q err=%v", tok, err)
	}
}

func TestServiceAccountCredentialsValidation(t *testing.T) {
	if _, err := newServiceAccountTokenSource(http.DefaultClient, "{"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := newServiceAccountTokenSource(http.DefaultClient, `{"client_email":""}`); err == nil {
		t.Fatal("expected invalid credentials error")
	}
}

func TestTokenExchangeRejectsEmptyToken(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) *http.Response {
		return response(http.StatusOK, `{"expires_in":3600}`)
	})}
	req, _ := http.NewRequest(http.MethodGet, "https://metadata.test/token", nil)
	if _, _, err := exchange(client, req); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func mustGenerateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}
