package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// 允许上传的图片类型
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// DetectImage 按内容嗅探图片类型，不信任扩展名
func DetectImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", fmt.Errorf("unsupported image type: %s", mt.String())
	}
	return mt.String(), nil
}

// ReadImageFile 读取本地图片文件并返回内容与类型
func ReadImageFile(path string) (data []byte, contentType string, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image %s failed: %w", filepath.Base(path), err)
	}
	contentType, err = DetectImage(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return data, contentType, nil
}
