package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// 肯尼亚手机号：07 或 01 开头，后跟 8 位数字
var mpesaPhonePattern = regexp.MustCompile(`^(07|01)\d{8}$`)

// StripSpaces 去掉所有空白字符 ("0712 345 678" -> "0712345678")
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsMpesaPhone 注册手机号与支付手机号共用的唯一判定
func IsMpesaPhone(phone string) bool {
	return mpesaPhonePattern.MatchString(StripSpaces(phone))
}
