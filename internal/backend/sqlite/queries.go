package sqlite

const createTableQuery = `
CREATE TABLE IF NOT EXISTS tasks (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	deadline   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'not done',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

const listTasksQuery = `
SELECT id, name, deadline, status
FROM tasks
ORDER BY seq;
`

const insertTaskQuery = `
INSERT INTO tasks (id, name, deadline, status)
VALUES (?, ?, ?, ?);
`

const completeTaskQuery = `
UPDATE tasks SET status = ? WHERE id = ?;
`

const deleteTaskQuery = `
DELETE FROM tasks WHERE id = ?;
`
