package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
  id          UUID PRIMARY KEY,
  user_id     VARCHAR(100) NOT NULL,
  type        VARCHAR(20)  NOT NULL,
  description VARCHAR(500) NOT NULL,
  created_at  TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_events_created_at ON events (created_at);
CREATE INDEX IF NOT EXISTS ix_events_user_id_created_at ON events (user_id, created_at);
CREATE INDEX IF NOT EXISTS ix_events_type_created_at ON events (type, created_at);
`

const insertEventSQL = `
INSERT INTO events (id, user_id, type, description, created_at)
VALUES ($1,$2,$3,$4,$5)
`
