package values

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeKind selects which fields of a DateTimeValue are meaningful.
type DateTimeKind uint8

const (
	GYear DateTimeKind = iota
	GYearMonth
	Date
	DateTime
	Time
	GMonth
	GMonthDay
	GDay
)

var dateTimeKindNames = [...]string{
	GYear:      "gYear",
	GYearMonth: "gYearMonth",
	Date:       "date",
	DateTime:   "dateTime",
	Time:       "time",
	GMonth:     "gMonth",
	GMonthDay:  "gMonthDay",
	GDay:       "gDay",
}

// String returns the XML Schema type name of the kind.
func (k DateTimeKind) String() string {
	if int(k) < len(dateTimeKindNames) {
		return dateTimeKindNames[k]
	}
	return fmt.Sprintf("datetimekind(%d)", uint8(k))
}

// Valid reports whether k is one of the eight defined kinds.
func (k DateTimeKind) Valid() bool {
	return int(k) < len(dateTimeKindNames)
}

// ParseDateTimeKind resolves an XML Schema type name such as "gMonthDay".
func ParseDateTimeKind(name string) (DateTimeKind, bool) {
	for k, n := range dateTimeKindNames {
		if n == name {
			return DateTimeKind(k), true
		}
	}
	return 0, false
}

// Wire layout of date/time fields.
const (
	YearOffset   = 2000
	MonthDayBits = 9
	TimeBits     = 17
	TimezoneBits = 11
	TimezoneBias = 14 * 64

	monthMultiplicator  = 32
	hourMultiplicator   = 64 * 64
	minuteMultiplicator = 64

	maxTimezoneMinutes = 14 * 60
)

// DateTimeValue holds any of the eight XML Schema date/time kinds.
//
// MonthDay packs month*32+day and Time packs (hour*64+minute)*64+second.
// FractionalSeconds holds the fraction digits in reverse order, so ".120"
// is stored as 21. TimezoneMinutes is the signed UTC offset in minutes.
// Fields the kind does not use are zero.
type DateTimeValue struct {
	Type                 DateTimeKind
	Year                 int32
	MonthDay             uint16
	Time                 uint32
	HasFractionalSeconds bool
	FractionalSeconds    uint32
	HasTimezone          bool
	TimezoneMinutes      int32
}

// PackMonthDay returns the MonthDay field for month and day. Either may be 0
// when the kind omits it.
func PackMonthDay(month, day int) uint16 {
	return uint16(month*monthMultiplicator + day)
}

// PackTime returns the Time field for a time of day.
func PackTime(hour, minute, second int) uint32 {
	return uint32(hour*hourMultiplicator + minute*minuteMultiplicator + second)
}

// TimezoneToWire maps a signed minute offset to the biased 11-bit field.
func TimezoneToWire(minutes int32) uint32 {
	h, m := minutes/60, minutes%60
	return uint32(h*64 + m + TimezoneBias)
}

// TimezoneFromWire is the inverse of TimezoneToWire.
func TimezoneFromWire(field uint32) int32 {
	tz := int32(field) - TimezoneBias
	return tz/64*60 + tz%64
}

func (d DateTimeValue) Kind() Kind { return KindDateTime }

func (d DateTimeValue) value() {}

func (d DateTimeValue) Month() int  { return int(d.MonthDay / monthMultiplicator) }
func (d DateTimeValue) Day() int    { return int(d.MonthDay % monthMultiplicator) }
func (d DateTimeValue) Hour() int   { return int(d.Time / hourMultiplicator) }
func (d DateTimeValue) Minute() int { return int(d.Time/minuteMultiplicator) % 64 }
func (d DateTimeValue) Second() int { return int(d.Time % minuteMultiplicator) }

// DateTimeFromTime extracts the fields kind needs from t. The zone offset of
// t becomes the timezone; sub-second precision becomes fractional seconds.
func DateTimeFromTime(kind DateTimeKind, t time.Time) DateTimeValue {
	d := DateTimeValue{Type: kind}
	_, offset := t.Zone()
	d.HasTimezone = true
	d.TimezoneMinutes = int32(offset / 60)

	if kind.hasYear() {
		d.Year = int32(t.Year())
	}
	switch kind {
	case GYearMonth, GMonth:
		d.MonthDay = PackMonthDay(int(t.Month()), 0)
	case Date, DateTime, GMonthDay:
		d.MonthDay = PackMonthDay(int(t.Month()), t.Day())
	case GDay:
		d.MonthDay = PackMonthDay(0, t.Day())
	}
	if kind.hasTime() {
		d.Time = PackTime(t.Hour(), t.Minute(), t.Second())
		if ns := t.Nanosecond(); ns != 0 {
			frac := strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
			rev, _ := strconv.ParseUint(reverseDigits(frac), 10, 32)
			d.HasFractionalSeconds = true
			d.FractionalSeconds = uint32(rev)
		}
	}
	return d
}

// InRange reports whether every field holds what the lexical form of the kind
// can express, so that String and ParseDateTime round trip. Fields the kind
// does not use must be zero.
func (d DateTimeValue) InRange() bool {
	if !d.Type.Valid() {
		return false
	}
	if (!d.Type.hasYear() && d.Year != 0) || (!d.Type.hasTime() && (d.Time != 0 || d.HasFractionalSeconds)) {
		return false
	}
	if !d.HasFractionalSeconds && d.FractionalSeconds != 0 {
		return false
	}
	if d.HasTimezone {
		if d.TimezoneMinutes < -maxTimezoneMinutes || d.TimezoneMinutes > maxTimezoneMinutes {
			return false
		}
	} else if d.TimezoneMinutes != 0 {
		return false
	}

	month, day := d.Month(), d.Day()
	switch d.Type {
	case GYear, Time:
		if d.MonthDay != 0 {
			return false
		}
	case GYearMonth, GMonth:
		if month < 1 || month > 12 || day != 0 {
			return false
		}
	case Date, DateTime:
		if month < 1 || month > 12 || day < 1 || day > daysIn(month, int(d.Year)) {
			return false
		}
	case GMonthDay:
		if month < 1 || month > 12 || day < 1 || day > daysIn(month, 2000) {
			return false
		}
	case GDay:
		if month != 0 || day < 1 {
			return false
		}
	}

	if d.Type.hasTime() {
		h, m, s := d.Hour(), d.Minute(), d.Second()
		if h > 24 || m > 59 || s > 59 {
			return false
		}
		if h == 24 && (m != 0 || s != 0 || d.FractionalSeconds != 0) {
			return false
		}
	}
	return true
}

func (k DateTimeKind) hasYear() bool {
	return k == GYear || k == GYearMonth || k == Date || k == DateTime
}

func (k DateTimeKind) hasTime() bool {
	return k == DateTime || k == Time
}

// ParseDateTime parses the lexical form of the given kind, including an
// optional trailing "Z" or "+hh:mm"/"-hh:mm" timezone.
func ParseDateTime(kind DateTimeKind, s string) (DateTimeValue, bool) {
	if !kind.Valid() {
		return DateTimeValue{}, false
	}
	s = collapse(s)
	d := DateTimeValue{Type: kind}

	body, ok := d.parseTimezone(s)
	if !ok {
		return DateTimeValue{}, false
	}
	l := &lexer{s: body}

	var month, day int
	switch kind {
	case GYear:
		ok = l.year(&d.Year)
	case GYearMonth:
		ok = l.year(&d.Year) && l.expect('-') && l.number(2, &month)
	case Date:
		ok = l.year(&d.Year) && l.expect('-') && l.number(2, &month) && l.expect('-') && l.number(2, &day)
	case DateTime:
		ok = l.year(&d.Year) && l.expect('-') && l.number(2, &month) && l.expect('-') && l.number(2, &day) &&
			l.expect('T') && l.timeOfDay(&d)
	case Time:
		ok = l.timeOfDay(&d)
	case GMonth:
		ok = l.expect('-') && l.expect('-') && l.number(2, &month)
	case GMonthDay:
		ok = l.expect('-') && l.expect('-') && l.number(2, &month) && l.expect('-') && l.number(2, &day)
	case GDay:
		ok = l.expect('-') && l.expect('-') && l.expect('-') && l.number(2, &day)
	}
	if !ok || !l.done() {
		return DateTimeValue{}, false
	}

	switch kind {
	case GYearMonth, GMonth:
		ok = month >= 1 && month <= 12
	case Date, DateTime:
		ok = month >= 1 && month <= 12 && day >= 1 && day <= daysIn(month, int(d.Year))
	case GMonthDay:
		// No year is known, so Feb 29 is allowed.
		ok = month >= 1 && month <= 12 && day >= 1 && day <= daysIn(month, 2000)
	case GDay:
		ok = day >= 1 && day <= 31
	}
	if !ok {
		return DateTimeValue{}, false
	}
	if kind != GYear && kind != Time {
		d.MonthDay = PackMonthDay(month, day)
	}
	return d, true
}

func (d *DateTimeValue) parseTimezone(s string) (string, bool) {
	if strings.HasSuffix(s, "Z") {
		d.HasTimezone = true
		return s[:len(s)-1], true
	}
	n := len(s)
	if n < 6 || (s[n-6] != '+' && s[n-6] != '-') || s[n-3] != ':' {
		return s, true
	}
	l := &lexer{s: s[n-5:]}
	var hh, mm int
	if !l.number(2, &hh) || !l.expect(':') || !l.number(2, &mm) {
		return s, false
	}
	minutes := hh*60 + mm
	if mm > 59 || minutes > maxTimezoneMinutes {
		return s, false
	}
	if s[n-6] == '-' {
		minutes = -minutes
	}
	d.HasTimezone = true
	d.TimezoneMinutes = int32(minutes)
	return s[:n-6], true
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(month, year int) int {
	switch month {
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

type lexer struct {
	s   string
	pos int
}

func (l *lexer) done() bool { return l.pos == len(l.s) }

func (l *lexer) expect(c byte) bool {
	if l.pos < len(l.s) && l.s[l.pos] == c {
		l.pos++
		return true
	}
	return false
}

// number reads exactly n digits.
func (l *lexer) number(n int, out *int) bool {
	if l.pos+n > len(l.s) || !isDigits(l.s[l.pos:l.pos+n]) {
		return false
	}
	*out, _ = strconv.Atoi(l.s[l.pos : l.pos+n])
	l.pos += n
	return true
}

// year reads an optionally negative year of at least four digits; longer
// years have no leading zero.
func (l *lexer) year(out *int32) bool {
	start := l.pos
	l.expect('-')
	end := l.pos
	for end < len(l.s) && l.s[end] >= '0' && l.s[end] <= '9' {
		end++
	}
	digits := l.s[l.pos:end]
	if len(digits) < 4 || (len(digits) > 4 && digits[0] == '0') {
		l.pos = start
		return false
	}
	// sign included, so the most negative year parses
	v, err := strconv.ParseInt(l.s[start:end], 10, 32)
	if err != nil {
		l.pos = start
		return false
	}
	*out = int32(v)
	l.pos = end
	return true
}

// timeOfDay reads hh:mm:ss with optional fraction.
func (l *lexer) timeOfDay(d *DateTimeValue) bool {
	var hh, mm, ss int
	if !l.number(2, &hh) || !l.expect(':') || !l.number(2, &mm) || !l.expect(':') || !l.number(2, &ss) {
		return false
	}
	frac := ""
	if l.expect('.') {
		start := l.pos
		for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
			l.pos++
		}
		frac = l.s[start:l.pos]
		if frac == "" {
			return false
		}
	}
	if mm > 59 || ss > 59 {
		return false
	}
	if hh > 24 || (hh == 24 && (mm != 0 || ss != 0 || strings.Trim(frac, "0") != "")) {
		return false
	}
	d.Time = PackTime(hh, mm, ss)
	if frac != "" {
		rev, err := strconv.ParseUint(reverseDigits(frac), 10, 32)
		if err != nil {
			return false
		}
		d.HasFractionalSeconds = true
		d.FractionalSeconds = uint32(rev)
	}
	return true
}

// String renders the XML Schema lexical form of the kind.
func (d DateTimeValue) String() string {
	var sb strings.Builder
	switch d.Type {
	case GYear:
		d.writeYear(&sb)
	case GYearMonth:
		d.writeYear(&sb)
		fmt.Fprintf(&sb, "-%02d", d.Month())
	case Date:
		d.writeYear(&sb)
		fmt.Fprintf(&sb, "-%02d-%02d", d.Month(), d.Day())
	case DateTime:
		d.writeYear(&sb)
		fmt.Fprintf(&sb, "-%02d-%02dT", d.Month(), d.Day())
		d.writeTime(&sb)
	case Time:
		d.writeTime(&sb)
	case GMonth:
		fmt.Fprintf(&sb, "--%02d", d.Month())
	case GMonthDay:
		fmt.Fprintf(&sb, "--%02d-%02d", d.Month(), d.Day())
	case GDay:
		fmt.Fprintf(&sb, "---%02d", d.Day())
	default:
		return d.Type.String()
	}
	if d.HasTimezone {
		d.writeTimezone(&sb)
	}
	return sb.String()
}

func (d DateTimeValue) writeYear(sb *strings.Builder) {
	y := int64(d.Year)
	if y < 0 {
		sb.WriteByte('-')
		y = -y
	}
	fmt.Fprintf(sb, "%04d", y)
}

func (d DateTimeValue) writeTime(sb *strings.Builder) {
	fmt.Fprintf(sb, "%02d:%02d:%02d", d.Hour(), d.Minute(), d.Second())
	if d.HasFractionalSeconds {
		sb.WriteByte('.')
		sb.WriteString(reverseDigits(strconv.FormatUint(uint64(d.FractionalSeconds), 10)))
	}
}

func (d DateTimeValue) writeTimezone(sb *strings.Builder) {
	tz := d.TimezoneMinutes
	if tz == 0 {
		sb.WriteByte('Z')
		return
	}
	sign := byte('+')
	if tz < 0 {
		sign, tz = '-', -tz
	}
	sb.WriteByte(sign)
	fmt.Fprintf(sb, "%02d:%02d", tz/60, tz%60)
}

func (d DateTimeValue) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses input according to the Type already set on d.
func (d *DateTimeValue) UnmarshalText(input []byte) error {
	res, ok := ParseDateTime(d.Type, string(input))
	if !ok {
		return ErrInvalidLexical
	}
	*d = res
	return nil
}
