package normalize

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rss_channel_bot/internal/model"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "just words",
			want: "just words",
		},
		{
			name: "tags stripped",
			in:   "<p>Event sourcing gives us an <i>audit trail</i> for free.</p>",
			want: "Event sourcing gives us an audit trail for free.",
		},
		{
			name: "script and style removed",
			in:   "<p>hello</p><script>alert(1)</script><style>p{color:red}</style>",
			want: "hello",
		},
		{
			name: "whitespace collapsed",
			in:   "<div>one\n\n  two\tthree</div>",
			want: "one two three",
		},
		{
			name: "malformed html degrades gracefully",
			in:   "<p>unclosed <b>bold and <broken",
			want: "unclosed bold and",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Text mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMessageFormat(t *testing.T) {
	entry := model.Entry{
		Title: "Why we moved to event sourcing",
		Body:  "<p>Event sourcing gives us an <i>audit trail</i> for free.</p>",
		Link:  "https://blog.example.com/event-sourcing",
	}

	want := "[Engineering Blog]\n\nWhy we moved to event sourcing\n\nEvent sourcing gives us an audit trail for free.\n\nhttps://blog.example.com/event-sourcing"
	if diff := cmp.Diff(want, Message("Engineering Blog", entry)); diff != "" {
		t.Errorf("Message mismatch (-want +got):\n%s", diff)
	}
}

// A retried delivery must send byte-identical content.
func TestMessageDeterministic(t *testing.T) {
	entry := model.Entry{
		Title: "Post",
		Body:  strings.Repeat("<p>paragraph</p>", 500),
		Link:  "https://blog.example.com/post",
	}

	first := Message("Blog", entry)
	second := Message("Blog", entry)
	if first != second {
		t.Error("Message is not deterministic for identical input")
	}
}

func TestMessageTruncation(t *testing.T) {
	entry := model.Entry{
		Title: "Long post",
		Body:  strings.Repeat("word ", 400),
		Link:  "https://blog.example.com/long",
	}

	const maxLen = 200
	got := message("Blog", entry, maxLen)

	if n := len([]rune(got)); n > maxLen {
		t.Errorf("message length %d exceeds max %d", n, maxLen)
	}
	if !strings.Contains(got, truncationMarker) {
		t.Errorf("truncated message missing marker: %q", got)
	}
	if !strings.HasSuffix(got, entry.Link) {
		t.Errorf("truncated message must keep the original link: %q", got)
	}
}

func TestMessageNoTruncationWhenShort(t *testing.T) {
	entry := model.Entry{
		Title: "Short",
		Body:  "tiny body",
		Link:  "https://blog.example.com/short",
	}

	got := message("Blog", entry, 500)
	if strings.Contains(got, truncationMarker) {
		t.Errorf("short message should not carry the truncation marker: %q", got)
	}
}

func TestMessageOversizedHeaderStillBounded(t *testing.T) {
	entry := model.Entry{
		Title: strings.Repeat("t", 300),
		Body:  "body",
		Link:  "https://blog.example.com/" + strings.Repeat("p", 200),
	}

	const maxLen = 100
	got := message("Blog", entry, maxLen)
	if n := len([]rune(got)); n > maxLen {
		t.Errorf("message length %d exceeds max %d even with an oversized title", n, maxLen)
	}
}

func TestMessageWithoutLink(t *testing.T) {
	entry := model.Entry{Title: "No link", Body: strings.Repeat("x", 300)}

	got := message("Blog", entry, 100)
	if n := len([]rune(got)); n > 100 {
		t.Errorf("message length %d exceeds max 100", n)
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("expected message to end with marker when no link: %q", got)
	}
}
