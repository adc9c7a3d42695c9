// Package model defines the provider-agnostic abstractions and concrete
// helpers for talking to language models from pipeline actions.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Let every provider (OpenAI, Anthropic) implement the same Model interface
//   - Provide Complete, the single call path actions use (limiter, logging)
//   - Provide RetryModel so the retry policy is applied uniformly
//   - Facilitate lightweight mocking for tests (MockModel)
package model
