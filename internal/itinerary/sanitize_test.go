package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	in := `Flight: AA 1149<br>Departure: Austin AUS 4:29pm<br/>` +
		`<a href="https://example.com/b">Booking</a> &amp; more <b>bold</b>`
	assert.Equal(t, "Flight: AA 1149\nDeparture: Austin AUS 4:29pm\nBooking (https://example.com/b) & more bold", Sanitize(in))

	assert.Equal(t, "https://a.example", Sanitize(`<a href="https://a.example">https://a.example</a>`))
	assert.Equal(t, "https://a.example", Sanitize(`<a href='https://a.example'></a>`))
	assert.Equal(t, `<tag> "q" it's`, Sanitize("&lt;tag&gt; &quot;q&quot; it&#39;s"))
	assert.Equal(t, "&copy; stays", Sanitize("&copy; stays"))
	assert.Equal(t, "a\n\nb", Sanitize("a<br><br><br><br>b"))
	assert.Equal(t, "", Sanitize(""))
}

func TestGmailLink(t *testing.T) {
	assert.Equal(t, "https://mail.google.com/x?id=1", ExtractGmailLink("see https://mail.google.com/x?id=1 now"))
	assert.Empty(t, ExtractGmailLink("no links here"))

	assert.Equal(t, "Email:\nFlight: AA 1", StripGmailLink("Email: https://mail.google.com/x\nFlight: AA 1"))
	assert.Equal(t, "Flight: AA 1", StripGmailLink("https://mail.google.com/x\n\nFlight: AA 1"))
	assert.Equal(t, "Hi\n\nthere", StripGmailLink("Hi\n\nthere"))
	assert.Empty(t, StripGmailLink(""))
}

func TestResolveShortDate(t *testing.T) {
	now := time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)

	d, ok := ResolveShortDate("Dec 19", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.December, 19, 0, 0, 0, 0, time.UTC), d)

	d, _ = ResolveShortDate("May 1", now)
	assert.Equal(t, 2026, d.Year())

	d, _ = ResolveShortDate("Apr 13", now)
	assert.Equal(t, 2027, d.Year())

	d, _ = ResolveShortDate("apr  14", now)
	assert.Equal(t, 2026, d.Year())

	_, ok = ResolveShortDate("Smarch 3", now)
	assert.False(t, ok)

	// Feb 29 resolves to 2027 here, which has no leap day.
	_, ok = ResolveShortDate("Feb 29", now)
	assert.False(t, ok)

	d, ok = ResolveShortDate("Feb 29", time.Date(2027, time.October, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), d)
}
