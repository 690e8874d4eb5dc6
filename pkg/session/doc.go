/*
Package session drives conversations with backend agents.

A Session owns one chat transcript and enforces single-flight: while an execution request
is outstanding, further sends are refused rather than queued. Every outcome of a request,
including transport failures, ends up as exactly one agent message, so nothing here is
fatal to the conversation.

A Manager keeps one Session per agent for callers that serve several conversations, such
as the MCP server.
*/
package session
