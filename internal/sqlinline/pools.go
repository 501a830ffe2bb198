package sqlinline

const QListPools = `--sql 19860679-9ec2-4410-afd7-e1ff78ab771c
select id, name, total_amount, created_at, updated_at
from pools
order by id;
`

// QIncrementPoolTotal locks the pool row for the rest of the transaction. It
// returns no row when the pool does not exist or when its total exceeds $3,
// the largest total that can still take the amount.
const QIncrementPoolTotal = `--sql e4c0d572-bcc7-4a02-945d-fe6cfe9c602e
update pools
set total_amount = total_amount + $2::bigint,
    updated_at = now()
where id = $1::bigint
  and total_amount <= $3::bigint
returning id;
`

const QPoolExists = `--sql a27dc9fb-743d-440f-a225-970d92498492
select exists(select 1 from pools where id = $1::bigint);
`

const QSeedPool = `--sql 59531602-ff53-41bf-b0c2-e9f9e8d30cd6
insert into pools(id, name, total_amount, created_at, updated_at)
values ($1::bigint, $2::text, 0, now(), now())
on conflict (id) do nothing;
`

// QSyncPoolSequence moves the id sequence past explicitly seeded ids.
const QSyncPoolSequence = `--sql 67aac501-efab-41f0-8206-8d76a6a4a702
select setval(pg_get_serial_sequence('pools', 'id'), greatest((select max(id) from pools), 1));
`

const QPoolBalances = `--sql 9c7a1c56-32b0-4de0-983f-d3b0e3a725da
select p.id, p.name, p.total_amount,
       coalesce(sum(c.amount), 0)::bigint as contribution_sum,
       count(c.id) as contribution_count
from pools p
left join contributions c on c.pool_id = p.id
group by p.id
order by p.id;
`
