package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const rawResource = "raw"

// CloudinaryStorage stores objects as Cloudinary raw assets. The bucket is
// used as the public id prefix, so path "a/b.pdf" in bucket "certificates"
// lives at public id "certificates/a/b.pdf".
type CloudinaryStorage struct {
	cld          *cloudinary.Cloudinary
	secret       string
	timeout      time.Duration
	deliveryHost string
}

func NewCloudinaryStorage(cloudinaryURL string, timeout time.Duration) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	parsed, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("parse cloudinary url: %w", err)
	}
	secret, _ := parsed.User.Password()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CloudinaryStorage{
		cld:          cld,
		secret:       secret,
		timeout:      timeout,
		deliveryHost: "https://res.cloudinary.com",
	}, nil
}

func publicID(bucket, path string) string {
	return strings.Trim(bucket, "/") + "/" + strings.TrimLeft(path, "/")
}

func (s *CloudinaryStorage) Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := uploader.UploadParams{
		PublicID:       publicID(bucket, path),
		ResourceType:   rawResource,
		Overwrite:      api.Bool(opts.Overwrite),
		Invalidate:     api.Bool(opts.Overwrite),
		UniqueFilename: api.Bool(false),
	}

	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

func (s *CloudinaryStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s/upload/%s", s.deliveryHost, s.cld.Config.Cloud.CloudName, rawResource, publicID(bucket, path))
}

// Remove destroys every path and reports all failures together. Objects that
// are already gone are not failures.
func (s *CloudinaryStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	var errs []error
	for _, p := range paths {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res, err := s.cld.Upload.Destroy(callCtx, uploader.DestroyParams{
			PublicID:     publicID(bucket, p),
			ResourceType: rawResource,
			Invalidate:   api.Bool(true),
		})
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		if res.Error.Message != "" {
			errs = append(errs, fmt.Errorf("%s: %s", p, res.Error.Message))
		}
	}
	return errors.Join(errs...)
}

// UploadSignature signs a direct browser upload into folder, the way the admin
// panel sends certificate templates and signatures.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

func (s *CloudinaryStorage) SignUpload(folder string, now time.Time) (UploadSignature, error) {
	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return UploadSignature{}, err
	}
	timestamp := now.Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, s.secret)
	if err != nil {
		return UploadSignature{}, err
	}
	return UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}
