package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // sorgu derlenemedi veya çalıştırılamadı
	ExitCommandError = 2 // geçersiz dosya, bayrak veya bağlantı
)

// ExitError, belirli bir çıkış koduyla dönen hatadır.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError, bir hatayı çıkış koduyla sarar.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode, hatadan çıkış kodunu çıkarır. ExitError değilse ExitFailure döner.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response, JSON çıktısının standart zarfıdır.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OutputFormatter, JSON ve metin çıktısını yönetir.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Success, başarılı bir sonucu yazar. Metin biçiminde text kullanılır.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Failure, bir hatayı yapılandırılmış biçimde yazar ve ExitError döndürür.
func (f *OutputFormatter) Failure(code int, message string, err error) error {
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: fmt.Sprintf("%s: %v", message, err)})
	}
	return WrapExitError(code, message, err)
}
