package net

import (
	"bytes"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// FilePart multipart 中的一个文件
type FilePart struct {
	Param       string
	Filename    string
	ContentType string
	Data        []byte
}

// WithMultipart multipart/form-data 请求体
// fields 中同名多值按顺序写出；files 按切片顺序写出
func WithMultipart(fields url.Values, files []FilePart) RequestOption {
	return func(r *resty.Request) {
		r.SetFormDataFromValues(fields)

		parts := make([]*resty.MultipartField, 0, len(files))
		for _, f := range files {
			parts = append(parts, &resty.MultipartField{
				Param:       f.Param,
				FileName:    f.Filename,
				ContentType: f.ContentType,
				Reader:      bytes.NewReader(f.Data),
			})
		}
		r.SetMultipartFields(parts...)
	}
}
