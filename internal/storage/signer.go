package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config configures the S3-compatible URL signer.
type Config struct {
	Endpoint  string // e.g. "https://storage.example.com" or "minio:9000"
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL, when set, replaces the endpoint scheme+host in signed URLs
	// so clients behind a gateway reach storage through its public address.
	PublicURL string
	UploadTTL time.Duration
}

// Signer issues presigned S3 URLs using SigV4 query signing. All signing is
// local HMAC work; no network call is made.
type Signer struct {
	cfg      Config
	endpoint *url.URL
	now      func() time.Time
}

// NewSigner creates a Signer, or a disabled one (nil) when the endpoint,
// bucket, or credentials are missing.
func NewSigner(cfg Config) (*Signer, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" ||
		strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, ErrDisabled
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid storage endpoint %q", cfg.Endpoint)
	}

	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.UploadTTL <= 0 {
		cfg.UploadTTL = 10 * time.Minute
	}

	return &Signer{cfg: cfg, endpoint: parsed, now: time.Now}, nil
}

// SignUpload returns a presigned PUT URL for the given object path. The
// returned token is the signature component, handed to clients that upload
// via a token-based API rather than the raw URL.
func (s *Signer) SignUpload(_ context.Context, path, contentType string) (*SignedUpload, error) {
	signed, token, err := s.presign("PUT", path, s.cfg.UploadTTL, contentType)
	if err != nil {
		return nil, err
	}
	return &SignedUpload{Path: path, Token: token, SignedURL: signed}, nil
}

// SignDownload returns a presigned GET URL valid for expiresIn.
func (s *Signer) SignDownload(_ context.Context, path string, expiresIn time.Duration) (*SignedDownload, error) {
	signed, _, err := s.presign("GET", path, expiresIn, "")
	if err != nil {
		return nil, err
	}
	return &SignedDownload{URL: signed, ExpiresIn: expiresIn}, nil
}

// presign implements SigV4 query-string signing for a single object.
func (s *Signer) presign(method, path string, expires time.Duration, contentType string) (string, string, error) {
	if strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("object path is required")
	}

	now := s.now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	scope := strings.Join([]string{dateStamp, s.cfg.Region, "s3", "aws4_request"}, "/")

	objectURL := s.objectURL(path)

	query := url.Values{}
	query.Set("X-Amz-Algorithm", "AWS4-HMAC-SHA256")
	query.Set("X-Amz-Credential", s.cfg.AccessKey+"/"+scope)
	query.Set("X-Amz-Date", amzDate)
	query.Set("X-Amz-Expires", strconv.Itoa(int(expires/time.Second)))
	query.Set("X-Amz-SignedHeaders", "host")

	canonicalRequest := strings.Join([]string{
		method,
		objectURL.EscapedPath(),
		canonicalQuery(query),
		"host:" + objectURL.Host + "\n",
		"host",
		"UNSIGNED-PAYLOAD",
	}, "\n")

	hash := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		hex.EncodeToString(hash[:]),
	}, "\n")

	signingKey := deriveSigningKey(s.cfg.SecretKey, dateStamp, s.cfg.Region)
	signature := hmacSHA256Hex(signingKey, stringToSign)

	query.Set("X-Amz-Signature", signature)
	objectURL.RawQuery = query.Encode()

	signed := objectURL.String()
	if public := strings.TrimSpace(s.cfg.PublicURL); public != "" {
		base := s.endpoint.Scheme + "://" + s.endpoint.Host
		signed = strings.Replace(signed, base, strings.TrimRight(public, "/"), 1)
	}
	_ = contentType // declared by the client at upload time, not signed

	return signed, signature, nil
}

func (s *Signer) objectURL(path string) *url.URL {
	u := *s.endpoint
	basePath := strings.TrimRight(u.Path, "/")
	u.Path = basePath + "/" + strings.TrimLeft(s.cfg.Bucket, "/") + "/" + strings.TrimLeft(path, "/")
	return &u
}

func canonicalQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func deriveSigningKey(secret, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, "s3")
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hmacSHA256Hex(key []byte, data string) string {
	return hex.EncodeToString(hmacSHA256(key, data))
}
