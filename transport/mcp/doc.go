// Package mcp provides a Model Context Protocol interface for the
// pair-matching game.
//
// The package is a thin client: every tool call is proxied to the REST API
// server, so MCP agents and HTTP/WebSocket clients always observe the same
// state. Running it in stdio mode gives an MCP host a complete play surface
// without exposing anything beyond the REST API's capabilities.
//
// Tools:
//
//	create_game, list_games, get_game, delete_game
//	game_state, flip_card, flip_back, undo_move
//	get_hint, high_scores, board_analysis
//	list_presets, game_instructions
//
// Board snapshots are rendered as compact character grids ('.' face down,
// uppercase face up, lowercase matched) so agents can reason about the board
// from plain text.
package mcp
