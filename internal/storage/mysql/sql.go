package mysql

const getReservationSQL = `
SELECT id, house_id, tenant_id, start_date, end_date, status
FROM reservations
WHERE id = ?`

const upsertReservationSQL = `
INSERT INTO reservations (id, house_id, tenant_id, start_date, end_date, status)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  house_id = VALUES(house_id),
  tenant_id = VALUES(tenant_id),
  start_date = VALUES(start_date),
  end_date = VALUES(end_date),
  status = VALUES(status)`

const getHouseSQL = `
SELECT id, owner_id
FROM houses
WHERE id = ?`

const upsertHouseSQL = `
INSERT INTO houses (id, owner_id)
VALUES (?,?)
ON DUPLICATE KEY UPDATE owner_id = VALUES(owner_id)`

const getCalendarEntriesSQL = `
SELECT reservation_id, status
FROM house_calendar_entries
WHERE house_id = ?
ORDER BY reservation_id`

const deleteCalendarEntriesSQL = `
DELETE FROM house_calendar_entries WHERE house_id = ?`

const insertCalendarEntriesPrefix = `
INSERT INTO house_calendar_entries (house_id, reservation_id, status) VALUES `

const getUserSQL = `
SELECT id, email
FROM users
WHERE id = ?`

const upsertUserSQL = `
INSERT INTO users (id, email)
VALUES (?,?)
ON DUPLICATE KEY UPDATE email = VALUES(email)`
