package utils

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// CheckVideoURL verifies that a lesson's video URL answers before the lesson
// is published. A HEAD request is enough; some hosts reject HEAD, so a GET is
// retried once in that case.
func CheckVideoURL(url string) error {
	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().Head(url)
	if err != nil || resp.StatusCode() == 405 {
		resp, err = client.R().Get(url)
	}
	if err != nil {
		return fmt.Errorf("video URL unreachable: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("video URL responded with status %d", resp.StatusCode())
	}
	return nil
}
