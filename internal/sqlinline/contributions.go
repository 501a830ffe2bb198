package sqlinline

const QInsertContribution = `--sql 246fe7f8-a705-49e1-81d0-c987dacc3843
insert into contributions(pool_id, user_name, phone, amount, created_at)
values ($1::bigint, $2::text, $3::text, $4::bigint, now())
returning id, created_at;
`

const QListContributionsByPool = `--sql 6fa7d338-138b-42bf-9fc8-4029f4991df5
select id, pool_id, user_name, phone, amount, created_at
from contributions
where pool_id = $1::bigint
order by id;
`
