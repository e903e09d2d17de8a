package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
)

// CompileRunner はプロバイダを呼ばずに生成リクエストを出力するドライランなのだ。
type CompileRunner struct {
	compiler Compiler
	out      io.Writer
}

// NewCompileRunner は CompileRunner を生成するのだ。
func NewCompileRunner(compiler Compiler, out io.Writer) (*CompileRunner, error) {
	if compiler == nil {
		return nil, errors.New("compiler は必須です")
	}
	if out == nil {
		return nil, errors.New("out は必須です")
	}
	return &CompileRunner{compiler: compiler, out: out}, nil
}

// Run は指定シーンのリクエストを組み立てて書き出すのだ。
// asJSON が true の場合は JSON、そうでなければ人が読む形式なのだ。
func (r *CompileRunner) Run(sceneID, refinement string, asJSON bool) (*domain.GenerationRequest, error) {
	req, err := r.compiler.Compile(sceneID, generator.CompileOptions{Refinement: refinement})
	if err != nil {
		return nil, fmt.Errorf("シーン %s のコンパイルに失敗したのだ: %w", sceneID, err)
	}

	if asJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summarize(req)); err != nil {
			return nil, fmt.Errorf("リクエストの出力に失敗したのだ: %w", err)
		}
		return req, nil
	}

	if err := writeText(r.out, req); err != nil {
		return nil, fmt.Errorf("リクエストの出力に失敗したのだ: %w", err)
	}
	return req, nil
}

// summarize は data URI の本体を省略したリクエストのコピーを返すのだ。
func summarize(req *domain.GenerationRequest) *domain.GenerationRequest {
	out := *req
	out.Attachments = make([]domain.Attachment, len(req.Attachments))
	for i, att := range req.Attachments {
		if domain.IsDataURI(att.Image) {
			att.Image = fmt.Sprintf("<inline %s>", domain.MimeTypeOf(att.Image))
		}
		out.Attachments[i] = att
	}
	return &out
}

func writeText(w io.Writer, req *domain.GenerationRequest) error {
	s := summarize(req)
	if _, err := fmt.Fprintf(w, "scene: %s\nmodel: %s\naspect_ratio: %s\n\nattachments (%d):\n",
		s.SceneID, s.Model, s.AspectRatio, len(s.Attachments)); err != nil {
		return err
	}
	for i, att := range s.Attachments {
		if _, err := fmt.Fprintf(w, "  %d. [%s] %s\n     %s\n", i+1, att.Role, att.Label, att.Image); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nprompt:\n%s\n", s.PromptText)
	return err
}
