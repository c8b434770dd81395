package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrEmptyCatalog はシーンが 1 件も無いカタログを作ろうとしたときに返ります。
var ErrEmptyCatalog = errors.New("scene catalog must not be empty")

// Catalog は生成に使うシーン説明の不変な一覧です。
type Catalog struct {
	scenes []string
	intn   func(n int) int
}

// Option は Catalog の生成オプションです。
type Option func(*Catalog)

// WithRand は添字の選び方を差し替えます。intn は [0, n) の値を返す必要があります。
func WithRand(intn func(n int) int) Option {
	return func(c *Catalog) {
		if intn != nil {
			c.intn = intn
		}
	}
}

// NewCatalog は scenes をコピーして Catalog を作ります。
// 空のカタログや空白だけのエントリは起動時エラーとして扱うのだ。
func NewCatalog(scenes []string, opts ...Option) (*Catalog, error) {
	if len(scenes) == 0 {
		return nil, ErrEmptyCatalog
	}

	copied := make([]string, 0, len(scenes))
	for i, s := range scenes {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("scene %d is blank: %w", i, ErrEmptyCatalog)
		}
		copied = append(copied, s)
	}

	c := &Catalog{scenes: copied, intn: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNewCatalog は NewCatalog の失敗時に panic します。組み込みカタログ用です。
func MustNewCatalog(scenes []string, opts ...Option) *Catalog {
	c, err := NewCatalog(scenes, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Pick は一様乱数でシーンを 1 つ選びます。
func (c *Catalog) Pick() string {
	return c.scenes[c.intn(len(c.scenes))]
}

// Len はシーン数を返します。
func (c *Catalog) Len() int {
	return len(c.scenes)
}

// Scenes はシーン一覧のコピーを返します。
func (c *Catalog) Scenes() []string {
	out := make([]string, len(c.scenes))
	copy(out, c.scenes)
	return out
}
