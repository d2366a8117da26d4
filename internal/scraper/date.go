package scraper

import (
	"fmt"
	"time"
)

// DateLayout 外部输入日期的唯一格式：dd/mm/yyyy，日和月可以省略前导零（1/3/2025）
const DateLayout = "2/1/2006"

// Date 不含时间部分的日历日期
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf 取 t 在其所在时区的日期部分
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today 返回当前本地日期
func Today() Date {
	return DateOf(time.Now())
}

// String 总是输出补零的 dd/mm/yyyy
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// IsZero 未设置日期
func (d Date) IsZero() bool {
	return d == Date{}
}

// DateFormatError 输入字符串不符合 dd/mm/yyyy
type DateFormatError struct {
	Input string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("scraper: date %q is not in dd/mm/yyyy format: %v", e.Input, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// ParseDate 是字符串日期进入系统的唯一入口
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &DateFormatError{Input: s, Err: err}
	}
	return DateOf(t), nil
}
