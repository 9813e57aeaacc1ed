package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  id          TEXT PRIMARY KEY,
  user_id     TEXT NOT NULL,
  type        TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_events_created_at ON events (created_at);
CREATE INDEX IF NOT EXISTS ix_events_user_id_created_at ON events (user_id, created_at);
CREATE INDEX IF NOT EXISTS ix_events_type_created_at ON events (type, created_at);
`

const insertEventSQL = `
INSERT INTO events (id, user_id, type, description, created_at)
VALUES (?,?,?,?,?)
`
