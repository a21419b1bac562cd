package server

// migrate runs database migrations
func (s *Server) migrate() error {
	migrations := []string{
		migrationUsers,
		migrationSessions,
		migrationLists,
		migrationItems,
		migrationCategories,
		migrationItemCategories,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(255) UNIQUE NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id),
    token VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
`

const migrationLists = `
CREATE TABLE IF NOT EXISTS todo_lists (
    id TEXT NOT NULL,
    user_id UUID NOT NULL REFERENCES users(id),
    title TEXT NOT NULL,
    description TEXT DEFAULT '',
    color TEXT DEFAULT '#FDF2B2',
    archived BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (user_id, id)
);
`

const migrationItems = `
CREATE TABLE IF NOT EXISTS list_items (
    id TEXT NOT NULL,
    user_id UUID NOT NULL,
    list_id TEXT NOT NULL,
    text TEXT NOT NULL,
    completed BOOLEAN DEFAULT FALSE,
    due_date TIMESTAMP,
    priority TEXT DEFAULT 'medium',
    created_at TIMESTAMP DEFAULT NOW(),
    PRIMARY KEY (user_id, id),
    FOREIGN KEY (user_id, list_id) REFERENCES todo_lists(user_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_list ON list_items(user_id, list_id);
`

const migrationCategories = `
CREATE TABLE IF NOT EXISTS categories (
    id TEXT NOT NULL,
    user_id UUID NOT NULL,
    list_id TEXT NOT NULL,
    name TEXT NOT NULL,
    color TEXT DEFAULT '#A5B4FC',
    icon TEXT DEFAULT '',
    PRIMARY KEY (user_id, id),
    FOREIGN KEY (user_id, list_id) REFERENCES todo_lists(user_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_categories_list ON categories(user_id, list_id);
`

const migrationItemCategories = `
CREATE TABLE IF NOT EXISTS item_categories (
    user_id UUID NOT NULL,
    item_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    PRIMARY KEY (user_id, item_id, category_id),
    FOREIGN KEY (user_id, item_id) REFERENCES list_items(user_id, id) ON DELETE CASCADE,
    FOREIGN KEY (user_id, category_id) REFERENCES categories(user_id, id) ON DELETE CASCADE
);
`
