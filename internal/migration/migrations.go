package migration

// getAllMigrations retorna todas as migrações disponíveis
func getAllMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_tasks_table",
			Up: `
				CREATE TABLE tasks (
					id VARCHAR(36) PRIMARY KEY,
					key VARCHAR(20) NOT NULL UNIQUE,
					title VARCHAR(200) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					status VARCHAR(20) NOT NULL DEFAULT 'TODO',
					estimate INTEGER,
					assignee VARCHAR(150),
					reporter VARCHAR(150),
					tags JSONB NOT NULL DEFAULT '[]',
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_tasks_status ON tasks(status);
				CREATE INDEX idx_tasks_assignee ON tasks(assignee);
				CREATE INDEX idx_tasks_updated_at ON tasks(updated_at DESC);
			`,
			Down: `
				DROP TABLE IF EXISTS tasks;
			`,
		},
		{
			Version: 2,
			Name:    "create_tags_table",
			Up: `
				CREATE TABLE tags (
					id VARCHAR(36) PRIMARY KEY,
					name VARCHAR(64) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				-- Unicidade case-insensitive do nome
				CREATE UNIQUE INDEX idx_tags_name_lower ON tags(LOWER(name));
			`,
			Down: `
				DROP TABLE IF EXISTS tags;
			`,
		},
		{
			Version: 3,
			Name:    "create_task_activities_table",
			Up: `
				CREATE TABLE task_activities (
					id SERIAL PRIMARY KEY,
					task_id VARCHAR(36) NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
					actor VARCHAR(150),
					type VARCHAR(30) NOT NULL,
					field VARCHAR(50),
					before_value TEXT,
					after_value TEXT,
					created_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_task_activities_task_created ON task_activities(task_id, created_at DESC);
			`,
			Down: `
				DROP TABLE IF EXISTS task_activities;
			`,
		},
	}
}
