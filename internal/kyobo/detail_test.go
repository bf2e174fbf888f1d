package kyobo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoincedo/kyobokr/internal/cache"
	"github.com/leoincedo/kyobokr/internal/testutil"
)

const detailPageHTML = `<!DOCTYPE html>
<html><body>
<div class="prod_heading">
	<span class="prod_title">귀멸의 칼날 23</span>
</div>
<div class="author"><a href="#">고토게 코요하루</a> &gt; <a href="#">김시내</a> <span>저자 더보기</span></div>
<div class="prod_info_text publish_date"><a href="#">학산문화사</a><span>2021년03월15일 · 출간</span></div>
<ul>
	<li class="category_list_item"><a>국내도서</a> &gt; <a>만화</a></li>
	<li class="category_list_item"><a>국내도서</a> &gt; <a>만화</a> &gt; <a>소년만화</a></li>
</ul>
<div class="intro_bottom"><div class="info_text">혈귀로 변한 여동생을 되돌리기 위한 소년의 여정.</div></div>
<input class="form_rating" type="hidden" value="8"/>
<div class="portrait_img_box"><img src="https://contents.kyobobook.co.kr/sih/S000200713992.jpg"/></div>
<table class="prod_detail_table">
	<tr><th>ISBN</th><td>9791136248077</td></tr>
	<tr><th>쪽수</th><td>192쪽</td></tr>
</table>
</body></html>`

const ageRestrictedHTML = `<!DOCTYPE html>
<html><body><p>19세 미만 구매 불가 상품입니다.</p></body></html>`

func TestParseDetailPage(t *testing.T) {
	book, coverURL, err := ParseDetailPage("S000200713992", []byte(detailPageHTML))
	require.NoError(t, err)

	assert.Equal(t, "귀멸의 칼날 23", book.Title)
	assert.Equal(t, []string{"고토게 코요하루", "김시내"}, book.Authors)
	assert.Equal(t, "학산문화사", book.Publisher)
	assert.Equal(t, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC), book.PubDate)
	assert.Equal(t, []string{"국내도서", "만화", "소년만화"}, book.Tags)
	assert.Equal(t, "혈귀로 변한 여동생을 되돌리기 위한 소년의 여정.", book.Description)
	assert.Equal(t, 4.0, book.Rating)
	assert.Equal(t, "S000200713992", book.Identifier("kyobo"))
	assert.Equal(t, "9791136248077", book.Identifier("isbn"))
	assert.Equal(t, "ko", book.Language)
	assert.Equal(t, "https://contents.kyobobook.co.kr/sih/S000200713992.jpg", coverURL)
}

func TestParseDetailPageAgeRestricted(t *testing.T) {
	_, _, err := ParseDetailPage("S1", []byte(ageRestrictedHTML))
	assert.ErrorIs(t, err, ErrAgeRestricted)
}

func TestParseDetailPageMissingTitle(t *testing.T) {
	_, _, err := ParseDetailPage("S1", []byte("<html><body><p>없음</p></body></html>"))
	assert.ErrorIs(t, err, ErrDetailParse)
}

func TestParseDetailPageBadDateFailsFetch(t *testing.T) {
	bad := `<html><body>
<span class="prod_title">t</span>
<div class="prod_info_text publish_date"><a>출판사</a><span>2021년 3월 · 출간</span></div>
</body></html>`
	_, _, err := ParseDetailPage("S1", []byte(bad))
	assert.ErrorIs(t, err, ErrDetailParse)
}

func TestParseDetailPageImpossibleDate(t *testing.T) {
	bad := `<html><body>
<span class="prod_title">t</span>
<div class="prod_info_text publish_date"><a>출판사</a><span>2021년13월40일 · 출간</span></div>
</body></html>`
	_, _, err := ParseDetailPage("S1", []byte(bad))
	assert.ErrorIs(t, err, ErrDateParse)
}

func newDetailServer(t *testing.T, detailStatus int, seriesNames []string) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		if detailStatus != http.StatusOK {
			http.Error(w, "error", detailStatus)
			return
		}
		_, _ = w.Write([]byte(detailPageHTML))
	})
	mux.HandleFunc("/api/gw/pdt/product/", func(w http.ResponseWriter, r *http.Request) {
		if seriesNames == nil {
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}
		list := make([]map[string]string, 0, len(seriesNames))
		for _, name := range seriesNames {
			list = append(list, map[string]string{"name": name})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"list": list}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(
		WithProductBaseURL(server.URL),
		WithEbookBaseURL(server.URL),
		WithCoverCache(cache.NewCoverCache(nil)),
	)
	return server, client
}

func TestFetchDetail(t *testing.T) {
	_, client := newDetailServer(t, http.StatusOK, []string{"귀멸의 칼날 23"})

	book, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)

	assert.Equal(t, "귀멸의 칼날 23", book.Title)
	assert.True(t, book.HasCover)
	assert.Equal(t, "귀멸의 칼날", book.Series)
	assert.Equal(t, 23.0, book.SeriesIndex)

	// The detail fetch populates both collaborator caches.
	covers := client.Covers()
	assert.NotEmpty(t, covers.CoverURL("S000200713992"))
	assert.Equal(t, "S000200713992", covers.IDForISBN("9791136248077"))
}

func TestFetchDetailSeriesFailureIsSwallowed(t *testing.T) {
	_, client := newDetailServer(t, http.StatusOK, nil)

	book, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)
	assert.Empty(t, book.Series)
	assert.Zero(t, book.SeriesIndex)
}

func TestFetchDetailServerError(t *testing.T) {
	_, client := newDetailServer(t, http.StatusNotFound, nil)

	_, err := client.FetchDetail(context.Background(), "S000200713992")
	assert.Error(t, err)
}

func TestFetchDetailAgeRestrictedWithSavedCopy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ageRestrictedHTML))
	})
	mux.HandleFunc("/api/gw/pdt/product/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "none", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := testutil.NewTestEnv(t)
	env.WriteFileString("S000200713992.html", detailPageHTML)

	client := NewClient(
		WithProductBaseURL(server.URL),
		WithCoverCache(cache.NewCoverCache(nil)),
		WithFallbackHTMLDir(env.RootDir()),
	)

	book, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)
	assert.Equal(t, "귀멸의 칼날 23", book.Title)
}

func TestFetchDetailAgeRestrictedWithoutSavedCopy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ageRestrictedHTML))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(
		WithProductBaseURL(server.URL),
		WithFallbackHTMLDir(t.TempDir()),
	)

	_, err := client.FetchDetail(context.Background(), "S000200713992")
	assert.ErrorIs(t, err, ErrAgeRestricted)
}

func TestFetchDetailWithoutCoverCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPageHTML))
	})
	mux.HandleFunc("/api/gw/pdt/product/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "none", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(WithProductBaseURL(server.URL))

	book, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)
	// No cache attached, so no cover can be recorded.
	assert.False(t, book.HasCover)
	assert.True(t, book.PubDate.Equal(time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)))
}
func TestFetchDetailServesRepeatFromCache(t *testing.T) {
	detailHits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		detailHits++
		_, _ = w.Write([]byte(detailPageHTML))
	})
	mux.HandleFunc("/api/gw/pdt/product/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "none", http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	db, err := cache.Open(testutil.NewTestEnv(t).Path("cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	client := NewClient(
		WithProductBaseURL(server.URL),
		WithCoverCache(cache.NewCoverCache(db)),
		WithDetailCache(cache.NewDetailCache(db, time.Hour)),
	)

	first, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)

	second, err := client.FetchDetail(context.Background(), "S000200713992")
	require.NoError(t, err)

	assert.Equal(t, 1, detailHits, "second fetch should come from the cache")
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Identifier("isbn"), second.Identifier("isbn"))
}
