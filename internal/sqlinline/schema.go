package sqlinline

const QCreateSchemaMigrations = `--sql b608cd14-8d17-4807-acce-a66392eaaca8
create table if not exists schema_migrations (
    version bigint primary key,
    name text not null,
    applied_at timestamptz not null default now()
);
`

const QSelectMigrationApplied = `--sql 9c26076b-e55a-40ab-957d-737c5874451b
select exists(select 1 from schema_migrations where version = $1);
`

const QRecordMigration = `--sql 4c6053d8-e256-468c-9a90-7162eb8acd3f
insert into schema_migrations(version, name) values ($1, $2);
`

const QCreatePools = `--sql 42140e4f-f112-469d-bcf0-161ef9665000
create table if not exists pools (
    id bigserial primary key,
    name text not null check (name <> ''),
    total_amount bigint not null default 0 check (total_amount >= 0),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`

const QCreateContributions = `--sql 90a1bf8f-4655-41e6-a547-85586b35b67d
create table if not exists contributions (
    id bigserial primary key,
    pool_id bigint not null references pools(id) on delete cascade,
    user_name text not null,
    phone text not null,
    amount bigint not null check (amount > 0),
    created_at timestamptz not null default now()
);
create index if not exists contributions_pool_id_idx on contributions(pool_id);
`
