package postgres

const schemaSQL = `
CREATE TABLE IF NOT EXISTS client_sites (
  id               BIGSERIAL PRIMARY KEY,
  client_name      TEXT NOT NULL,
  client_url       TEXT NOT NULL,
  status           TEXT NOT NULL DEFAULT 'ONLINE' CHECK (status IN ('ONLINE','OFFLINE')),
  response_time_ms BIGINT NULL,
  keywords         TEXT[] NOT NULL DEFAULT '{}',
  email_envied     BOOLEAN NOT NULL DEFAULT FALSE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS administrators (
  id    BIGSERIAL PRIMARY KEY,
  name  TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT ''
);
`
