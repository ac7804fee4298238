package gen

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

// ActionGenerator generates user action logs: "{user_id} did {action}".
type ActionGenerator struct {
	UserCount int
	rand      *rand.Rand
	linePool  [][]byte
}

var actions = []string{
	"login",
	"logout",
	"viewed product",
	"added to cart",
	"removed from cart",
	"purchased",
	"reviewed product",
	"updated profile",
	"changed password",
	"subscribed to newsletter",
}

const linePoolSize = 10000

func (g *ActionGenerator) Init(r *rand.Rand) {
	g.rand = r

	userIDs := make([]string, g.UserCount)
	for i := range g.UserCount {
		userIDs[i] = "user_" + strconv.Itoa(i)
	}

	g.linePool = make([][]byte, linePoolSize)
	for i := range linePoolSize {
		line := userIDs[r.IntN(g.UserCount)] + " did " + actions[r.IntN(len(actions))] + "\n"
		g.linePool[i] = []byte(line)
	}
}

func (g *ActionGenerator) WriteLine(w io.Writer) error {
	_, err := w.Write(g.linePool[g.rand.IntN(linePoolSize)])
	return err
}

func (g *ActionGenerator) Description() string {
	return "User action logs: {user_id} did {action}"
}

func (g *ActionGenerator) DefaultCount() int64 {
	return 1e4
}

// MetricGenerator generates key:value pairs.
type MetricGenerator struct {
	KeyCount int
	rand     *rand.Rand
}

var metricKeys = []string{
	"temperature",
	"humidity",
	"pressure",
	"cpu_usage",
	"memory_usage",
	"disk_io",
	"network_latency",
	"response_time",
	"error_rate",
	"request_count",
}

func (g *MetricGenerator) Init(r *rand.Rand) {
	g.rand = r
}

func (g *MetricGenerator) WriteLine(w io.Writer) error {
	key := metricKeys[g.rand.IntN(g.KeyCount)]
	_, err := fmt.Fprintf(w, "%s:%.2f\n", key, g.rand.Float64()*100)
	return err
}

func (g *MetricGenerator) Description() string {
	return "Metric data: key:value (keyvalue and field ops)"
}

func (g *MetricGenerator) DefaultCount() int64 {
	return 1e5
}

// URLGenerator generates URLs with many repeated hosts.
type URLGenerator struct {
	rand *rand.Rand
}

var domains = []string{
	"google.com",
	"facebook.com",
	"twitter.com",
	"github.com",
	"stackoverflow.com",
	"reddit.com",
	"youtube.com",
	"linkedin.com",
	"amazon.com",
	"wikipedia.org",
}

var urlPaths = []string{
	"",
	"/home",
	"/about",
	"/contact",
	"/products",
	"/api/v1",
	"/api/v2",
	"/docs",
	"/blog",
	"/search",
	"/user/profile",
	"/settings",
	"/help",
}

var queries = []string{
	"",
	"?page=1",
	"?id=123",
	"?ref=homepage",
	"?utm_source=test",
	"?sort=desc",
}

func (g *URLGenerator) Init(r *rand.Rand) {
	g.rand = r
}

func (g *URLGenerator) WriteLine(w io.Writer) error {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(domains[g.rand.IntN(len(domains))])
	b.WriteString(urlPaths[g.rand.IntN(len(urlPaths))])
	b.WriteString(queries[g.rand.IntN(len(queries))])
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *URLGenerator) Description() string {
	return "URLs: https://domain/path?query (urlhost op)"
}

func (g *URLGenerator) DefaultCount() int64 {
	return 5e4
}

// TextGenerator generates lines of random lowercase words. Lines vary in
// length, including empty ones, which makes chunk boundaries land unevenly.
type TextGenerator struct {
	MaxWords int
	rand     *rand.Rand
}

const letters = "abcdefghijklmnopqrstuvwxyz"

func (g *TextGenerator) Init(r *rand.Rand) {
	g.rand = r
}

func (g *TextGenerator) WriteLine(w io.Writer) error {
	var b strings.Builder
	for i := range g.rand.IntN(g.MaxWords + 1) {
		if i > 0 {
			b.WriteByte(' ')
		}
		for range 1 + g.rand.IntN(9) {
			b.WriteByte(letters[g.rand.IntN(len(letters))])
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *TextGenerator) Description() string {
	return "Random words, 0..max_words per line (words and len ops)"
}

func (g *TextGenerator) DefaultCount() int64 {
	return 1e4
}
