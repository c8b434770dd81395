package generator

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrEmptyScene はシーンが空のときに返ります。
var ErrEmptyScene = errors.New("scene cannot be empty")

// coloringPageTemplate は塗り絵の画風を固定するプロンプトです。
// 太い黒線・陰影なし・白背景という構成は崩さないこと。
const coloringPageTemplate = `A high-quality black and white coloring book page for children.
Subject: The main character from the "tigre goods" coloring book, which is a cute, round, chibi-style baby tiger. {{.Scene}}.
Style: Thick, clean, consistent black outlines on a pure white background.
No shading, no grayscale, no colors, no gradients. Flat vector line art style.
The composition should be centered and clear, suitable for a coloring book.`

var promptTemplate = template.Must(template.New("coloring_page").Parse(coloringPageTemplate))

type promptData struct {
	Scene string
}

// BuildPrompt はシーンを埋め込んだ生成プロンプトを返します。
func BuildPrompt(scene string) (string, error) {
	scene = strings.TrimRight(strings.TrimSpace(scene), ".")
	if scene == "" {
		return "", ErrEmptyScene
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Scene: scene}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
