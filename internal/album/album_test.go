package album

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "quoted attribute",
			text: `<img src="https://i.ibb.co/abc123/pic.jpg" alt="">`,
			want: []string{"https://i.ibb.co/abc123/pic.jpg"},
		},
		{
			name: "single quotes and angle brackets stop a link",
			text: `<a href='https://i.ibb.co/a/1.png'>https://i.ibb.co/b/2.png</a>`,
			want: []string{"https://i.ibb.co/a/1.png", "https://i.ibb.co/b/2.png"},
		},
		{
			name: "plain http and whitespace",
			text: "see http://i.ibb.co/a/1.png\nand\thttps://i.ibb.co/b/2.png end",
			want: []string{"http://i.ibb.co/a/1.png", "https://i.ibb.co/b/2.png"},
		},
		{
			name: "other hosts ignored",
			text: `https://ibb.co/album/x https://i.ibb.co.evil.com/a/1.png https://example.com/i.ibb.co/a`,
			want: nil,
		},
		{
			name: "host must be followed by a path",
			text: `https://i.ibb.co/ https://i.ibb.co "https://i.ibb.co/"`,
			want: nil,
		},
		{
			name: "scheme is case sensitive",
			text: `HTTPS://i.ibb.co/a/1.png`,
			want: nil,
		},
		{
			name: "adjacent links do not overlap",
			text: `https://i.ibb.co/a/1.pnghttps://i.ibb.co/b/2.png`,
			want: []string{"https://i.ibb.co/a/1.pnghttps://i.ibb.co/b/2.png"},
		},
		{
			name: "embedded in script",
			text: `var imgs = ["https://i.ibb.co/a/1.png","https://i.ibb.co/b/2.png"];`,
			want: []string{"https://i.ibb.co/a/1.png", "https://i.ibb.co/b/2.png"},
		},
		{
			name: "false start before real link",
			text: `httpx http:/ https://i.ibb.co/a/1.png`,
			want: []string{"https://i.ibb.co/a/1.png"},
		},
		{
			name: "non-breaking space ends a link",
			text: "https://i.ibb.co/a/1.png\xc2\xa0tail",
			want: []string{"https://i.ibb.co/a/1.png"},
		},
		{
			name: "next line control character is part of a link",
			text: "https://i.ibb.co/a/1.png\xc2\x85tail end",
			want: []string{"https://i.ibb.co/a/1.png\xc2\x85tail"},
		},
		{
			name: "ideographic space ends a link",
			text: "https://i.ibb.co/a/1.png\xe3\x80\x80tail",
			want: []string{"https://i.ibb.co/a/1.png"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Matches(tt.text, DefaultHost))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_CustomHost(t *testing.T) {
	text := `https://i.ibb.co/a/1.png https://img.example.com/x/2.png`
	got := slices.Collect(Matches(text, "img.example.com"))
	assert.Equal(t, []string{"https://img.example.com/x/2.png"}, got)
}

func TestMatches_EmptyHostUsesDefault(t *testing.T) {
	got := slices.Collect(Matches(`https://i.ibb.co/a/1.png`, ""))
	assert.Equal(t, []string{"https://i.ibb.co/a/1.png"}, got)
}

func TestMatches_IsLazy(t *testing.T) {
	text := `https://i.ibb.co/a/1.png https://i.ibb.co/b/2.png https://i.ibb.co/c/3.png`

	var got []string
	for m := range Matches(text, DefaultHost) {
		got = append(got, m)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"https://i.ibb.co/a/1.png", "https://i.ibb.co/b/2.png"}, got)
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "already clean",
			raw:  "https://i.ibb.co/abc123/pic.jpg",
			want: "https://i.ibb.co/abc123/pic.jpg",
		},
		{
			name: "escaped ampersands",
			raw:  `https://i.ibb.co/abc/pic.jpg?a=1\u0026token=xyz\u0026`,
			want: "https://i.ibb.co/abc/pic.jpg?a=1&token=xyz&",
		},
		{
			name: "trailing html quote entity",
			raw:  "https://i.ibb.co/abc/pic.jpg&quot;",
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "trailing unicode escaped quote",
			raw:  `https://i.ibb.co/abc/pic.jpg\u0022`,
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "trailing json escape backslash",
			raw:  `https://i.ibb.co/abc/pic.jpg\`,
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "trailing paren from css url()",
			raw:  "https://i.ibb.co/abc/pic.jpg)",
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "mixed trailing run",
			raw:  `https://i.ibb.co/abc/pic.jpg\&quot;)`,
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "escaped ampersand forming an entity",
			raw:  `https://i.ibb.co/abc/pic.jpg\u0026quot;`,
			want: "https://i.ibb.co/abc/pic.jpg",
		},
		{
			name: "inner quote kept",
			raw:  `https://i.ibb.co/abc/a&quot;b.jpg`,
			want: `https://i.ibb.co/abc/a"b.jpg`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"https://i.ibb.co/abc123/pic.jpg",
		`https://i.ibb.co/abc/pic.jpg?a=1\u0026b=2`,
		`https://i.ibb.co/abc/pic.jpg&quot;\u0022')`,
		`https://i.ibb.co/abc/a&quot;b.jpg`,
		`https://i.ibb.co/abc/\u0026quot;x`,
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestOrderedSet(t *testing.T) {
	var s OrderedSet[string]

	assert.True(t, s.Add("B"))
	assert.True(t, s.Add("A"))
	assert.False(t, s.Add("B"))
	assert.True(t, s.Add("C"))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"B", "A", "C"}, s.Values())

	// Values returns a copy
	v := s.Values()
	v[0] = "Z"
	assert.Equal(t, "B", s.Values()[0])
}

func TestExtractLinks(t *testing.T) {
	const (
		a = "https://i.ibb.co/aaa/a.jpg"
		b = "https://i.ibb.co/bbb/b.jpg"
		c = "https://i.ibb.co/ccc/c.jpg"
	)

	t.Run("first occurrence order", func(t *testing.T) {
		html := `<img src="` + b + `"><img src="` + a + `"><img src="` + b + `"><img src="` + c + `">`
		links, err := ExtractLinks(html, DefaultHost)
		require.NoError(t, err)
		assert.Equal(t, []string{b, a, c}, links)
	})

	t.Run("duplicates after cleaning collapse", func(t *testing.T) {
		html := `<meta content="` + a + `">` +
			`<script>{"u":"` + a + `\"}</script>` +
			`<div data-x="` + a + `&quot;"></div>`
		links, err := ExtractLinks(html, DefaultHost)
		require.NoError(t, err)
		assert.Equal(t, []string{a}, links)
	})

	t.Run("trailing quote stripped", func(t *testing.T) {
		links, err := ExtractLinks(`<img src="https://i.ibb.co/abc123/pic.jpg">`, DefaultHost)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://i.ibb.co/abc123/pic.jpg"}, links)
	})

	t.Run("escaped ampersands", func(t *testing.T) {
		html := `{"image":"https://i.ibb.co/abc/pic.jpg?x=1\u0026token=xyz\u0026"}`
		links, err := ExtractLinks(html, DefaultHost)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Contains(t, links[0], "&token=xyz&")
	})

	t.Run("no links", func(t *testing.T) {
		_, err := ExtractLinks(`<html><body>Nothing here https://ibb.co/album/x</body></html>`, DefaultHost)
		assert.ErrorIs(t, err, ErrNoLinksFound)
	})
}

type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) GetString(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

func TestExtractor_Extract(t *testing.T) {
	fetcher := &fakeFetcher{html: `<img src="https://i.ibb.co/abc/1.jpg"><img src="https://i.ibb.co/def/2.jpg">`}
	extractor := NewExtractor(fetcher, "")

	links, err := extractor.Extract(context.Background(), "https://ibb.co/album/Jw0Rgd")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://i.ibb.co/abc/1.jpg", "https://i.ibb.co/def/2.jpg"}, links)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, DefaultHost, extractor.Host())
}

func TestExtractor_Extract_FetchError(t *testing.T) {
	cause := errors.New("connection refused")
	fetcher := &fakeFetcher{err: cause}

	_, err := NewExtractor(fetcher, DefaultHost).Extract(context.Background(), "https://ibb.co/album/x")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNoLinksFound)
	assert.Contains(t, err.Error(), "failed to fetch album page")
}

func TestExtractor_Extract_NoLinks(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html></html>"}

	_, err := NewExtractor(fetcher, DefaultHost).Extract(context.Background(), "https://ibb.co/album/x")
	assert.ErrorIs(t, err, ErrNoLinksFound)
}

func TestExtractor_Extract_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "ibb.co/album/x", "ftp://ibb.co/album/x", "https://"} {
		t.Run(u, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			_, err := NewExtractor(fetcher, DefaultHost).Extract(context.Background(), u)
			assert.ErrorIs(t, err, ErrInvalidAlbumURL)
			assert.Zero(t, fetcher.calls, "no request for an invalid URL")
		})
	}
}

func TestAlbumID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://ibb.co/album/Jw0Rgd", "Jw0Rgd"},
		{"https://ibb.co/album/Jw0Rgd/", "Jw0Rgd"},
		{"https://ibb.co/album/Jw0Rgd?sort=date", "Jw0Rgd"},
		{"https://ibb.co", "album"},
		{"://bad", "album"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, AlbumID(tt.url))
		})
	}
}
