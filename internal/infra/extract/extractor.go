// Package extract はアップロードされたファイルからのテキスト抽出を提供する。
// 対応形式は PDF / DOCX / TXT / MD。
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinford/legal-rag/internal/core/ingestion"
)

// ErrUnsupportedFileType は未対応の拡張子のエラー
var ErrUnsupportedFileType = errors.New("unsupported file type")

// SupportedExtensions は受け付ける拡張子の一覧
var SupportedExtensions = []string{".pdf", ".docx", ".txt", ".md"}

// Extractor は拡張子ごとの抽出処理へディスパッチする
type Extractor struct{}

// NewExtractor は新しい Extractor を作成する
func NewExtractor() *Extractor {
	return &Extractor{}
}

// コンパイル時の型チェック
var _ ingestion.Extractor = (*Extractor)(nil)

// Extract はファイルからプレーンテキストを抽出する
func (e *Extractor) Extract(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".txt", ".md":
		return extractPlainText(filePath)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filePath))
	}
}

// IsSupported は拡張子が対応形式かどうかを返す
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func extractPlainText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
