// Package pdf 把 HTML 转换为 PDF。
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrConversion 转换工具不可用或执行失败
var ErrConversion = errors.New("pdf: conversion failed")

// Converter HTML 转 PDF
type Converter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// Wkhtmltopdf 调用 wkhtmltopdf 命令行，HTML 从 stdin 输入，PDF 从 stdout 读取
type Wkhtmltopdf struct {
	binary  string
	timeout time.Duration
}

var _ Converter = (*Wkhtmltopdf)(nil)

// NewWkhtmltopdf binary 可以是命令名或绝对路径
func NewWkhtmltopdf(binary string, timeout time.Duration) *Wkhtmltopdf {
	if binary == "" {
		binary = "wkhtmltopdf"
	}
	return &Wkhtmltopdf{binary: binary, timeout: timeout}
}

func (w *Wkhtmltopdf) Convert(ctx context.Context, html string) ([]byte, error) {
	path, err := exec.LookPath(w.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: 未找到 %s: %v", ErrConversion, w.binary, err)
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path,
		"--encoding", "UTF-8",
		"--no-outline",
		"--quiet",
		"-", "-",
	)
	cmd.Stdin = strings.NewReader(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrConversion, msg)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: %s 没有输出内容", ErrConversion, w.binary)
	}
	return stdout.Bytes(), nil
}
