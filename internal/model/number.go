package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlexFloat 兼容服务端返回的数字或数字字符串 (PostgreSQL decimal 会被序列化成 "4.50")
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 返回原始值
func (f FlexFloat) Float64() float64 { return float64(f) }

// FlexInt 兼容整数或整数字符串
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*i = FlexInt(v)
	return nil
}
