package controller

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/service"
)

// Console 命令输出，同时作为提示通道 (service.Notifier)
type Console struct {
	out io.Writer
	err io.Writer
}

// NewConsole 创建控制台输出
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, err: errOut}
}

func (c *Console) Success(msg string) { fmt.Fprintf(c.out, "✔ %s\n", msg) }
func (c *Console) Info(msg string)    { fmt.Fprintf(c.out, "ℹ %s\n", msg) }
func (c *Console) Error(msg string)   { fmt.Fprintf(c.err, "✖ %s\n", msg) }

// Printf 普通输出
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// Println 普通输出
func (c *Console) Println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}

// Table 对齐输出
func (c *Console) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

// ==================== 错误输出 ====================

// fail 统一的失败出口：展示提示并以非零状态退出
func fail(msg string) error {
	return cli.Exit(msg, 1)
}

// failWith 服务端提示优先，其次本地校验提示，否则兜底文案
func failWith(err error, fallback string) error {
	return fail(service.Message(err, fallback))
}

var errLoginFirst = cli.Exit(service.MsgLoginFirst, 1)

// ==================== 格式化 ====================

// formatKES 12000 -> "KES 12,000"
func formatKES(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "KES -" + b.String()
	}
	return "KES " + b.String()
}

func listingRows(listings []model.Listing) [][]string {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10),
			l.Title,
			l.Location,
			l.PropertyType.Label(),
			formatKES(int64(l.Price)) + "/mo",
			l.Status,
			strconv.Itoa(l.Views),
		})
	}
	return rows
}

var listingHeader = []string{"ID", "TITLE", "LOCATION", "TYPE", "PRICE", "STATUS", "VIEWS"}

func parseID(c *cli.Context) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fail("listing id required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fail("listing id must be a positive number")
	}
	return id, nil
}
