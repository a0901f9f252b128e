package ics

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//yearcal//EN\r\n" +
	"X-APPLE-CALENDAR-COLOR:#51b749FF\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:single@test\r\n" +
	"SUMMARY:Trip to Japan?\r\n" +
	"DESCRIPTION:Flight: JL 7\r\n" +
	"DTSTART;VALUE=DATE:20260310\r\n" +
	"DTEND;VALUE=DATE:20260317\r\n" +
	"URL:https://example.com/e/1\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:timed@test\r\n" +
	"SUMMARY:Standup\r\n" +
	"DTSTART:20260310T090000Z\r\n" +
	"DTEND:20260310T091500Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:cancelled@test\r\n" +
	"SUMMARY:Old plan\r\n" +
	"STATUS:CANCELLED\r\n" +
	"DTSTART;VALUE=DATE:20260401\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:untitled@test\r\n" +
	"STATUS:TENTATIVE\r\n" +
	"COLOR:5\r\n" +
	"DTSTART;VALUE=DATE:20260501\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"SUMMARY:Market day\r\n" +
	"DTSTART;VALUE=DATE:20260105\r\n" +
	"DTEND;VALUE=DATE:20260106\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"EXDATE;VALUE=DATE:20260112\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:weekly@test\r\n" +
	"RECURRENCE-ID;VALUE=DATE:20260119\r\n" +
	"SUMMARY:Market day (moved)\r\n" +
	"DTSTART;VALUE=DATE:20260120\r\n" +
	"DTEND;VALUE=DATE:20260121\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:bday@test\r\n" +
	"SUMMARY:Ana's Birthday\r\n" +
	"DTSTART;VALUE=DATE:20251231\r\n" +
	"DURATION:P2D\r\n" +
	"COLOR:#ff0000\r\n" +
	"RRULE:FREQ=YEARLY\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"
