package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
//
// Identifiers are 16-byte BLOBs and timestamps are naive ISO-8601 TEXT, the
// same layout the backend writes.
var migrations = [][]string{
	// Migration 1: accounts, knowledge bases, documents, templates
	{
		`CREATE TABLE users (
			id BLOB PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			display_name TEXT,
			bio TEXT,
			avatar_url TEXT,
			password_hash TEXT NOT NULL,
			permissions INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE knowledge_bases (
			id BLOB PRIMARY KEY,
			author_id BLOB NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			cover_image TEXT,
			cover_offset_y INTEGER NOT NULL DEFAULT 0,
			renderer_id TEXT,
			visibility TEXT NOT NULL DEFAULT 'Private',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_knowledge_bases_title ON knowledge_bases(title)`,

		`CREATE TABLE nodes (
			id BLOB PRIMARY KEY,
			parent_id BLOB,
			author_id BLOB NOT NULL,
			knowledge_base_id BLOB,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			permission_mode TEXT NOT NULL DEFAULT 'Private',
			permission_data TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (author_id) REFERENCES users(id),
			FOREIGN KEY (knowledge_base_id) REFERENCES knowledge_bases(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_nodes_kb ON nodes(knowledge_base_id)`,

		`CREATE TABLE layout_templates (
			id BLOB PRIMARY KEY,
			renderer_id TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			thumbnail TEXT,
			tags TEXT,
			config TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	// Migration 2: content blocks
	{
		`CREATE TABLE blocks (
			id BLOB PRIMARY KEY,
			document_id BLOB NOT NULL,
			type TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			revision INTEGER NOT NULL DEFAULT 1,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (document_id) REFERENCES nodes(id) ON DELETE CASCADE,
			UNIQUE (document_id, ordinal)
		)`,
		`CREATE INDEX idx_blocks_document ON blocks(document_id, ordinal)`,
	},
}
