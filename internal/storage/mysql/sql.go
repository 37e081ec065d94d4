package mysql

// -----------------------------------------------------------------------------
// LITE PAGES
// -----------------------------------------------------------------------------

const liteColumns = `
  l.id, l.property_id, l.account_id, l.slug, l.title, l.tagline, l.theme, l.accent_color,
  l.show_pricing, l.show_availability, l.show_reviews, l.show_qr, l.is_active, l.view_count,
  l.created_at, l.updated_at`

const insertLiteSQL = `
INSERT INTO lite_pages
  (id, property_id, account_id, slug, title, tagline, theme, accent_color,
   show_pricing, show_availability, show_reviews, show_qr, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// A NULL parameter keeps the stored column; anything else (including '' and 0) overwrites it.
const updateLiteSQL = `
UPDATE lite_pages SET
  title             = COALESCE(?, title),
  tagline           = COALESCE(?, tagline),
  theme             = COALESCE(?, theme),
  accent_color      = COALESCE(?, accent_color),
  show_pricing      = COALESCE(?, show_pricing),
  show_availability = COALESCE(?, show_availability),
  show_reviews      = COALESCE(?, show_reviews),
  show_qr           = COALESCE(?, show_qr),
  is_active         = COALESCE(?, is_active),
  updated_at        = CURRENT_TIMESTAMP
WHERE id = ?
`

const deleteLiteSQL = `DELETE FROM lite_pages WHERE id = ?`

// Atomic in the store; concurrent page hits never lose an increment.
const incrementViewsSQL = `UPDATE lite_pages SET view_count = view_count + 1 WHERE id = ?`

const slugExistsSQL = `SELECT EXISTS(SELECT 1 FROM lite_pages WHERE slug = ?)`

const getLiteSQL = `SELECT` + liteColumns + `
FROM lite_pages l
WHERE l.id = ?
`

const listLitesByAccountSQL = `SELECT` + liteColumns + `
FROM lite_pages l
WHERE l.account_id = ?
ORDER BY l.created_at DESC, l.id
`

const latestLiteByPropertySQL = `SELECT` + liteColumns + `
FROM lite_pages l
WHERE l.property_id = ?
ORDER BY l.created_at DESC, l.id
LIMIT 1
`

// Active entry joined with its property (required) and account (optional).
const resolveLiteSQL = `SELECT` + liteColumns + `,
  p.id, p.account_id, p.name, p.city, p.country, p.address, p.description, p.house_rules,
  p.check_in_time, p.check_out_time, p.cancellation_policy, p.currency, p.rating_avg,
  p.pets_allowed, p.children_allowed, p.latitude, p.longitude,
  a.id, a.name, a.email, a.phone
FROM lite_pages l
JOIN properties p ON p.id = l.property_id
LEFT JOIN accounts a ON a.id = l.account_id
WHERE l.slug = ? AND l.is_active = 1
`

// -----------------------------------------------------------------------------
// CONTENT
// -----------------------------------------------------------------------------

const listUnitsSQL = `
SELECT id, property_id, name, description, max_guests, bedrooms, bathrooms, beds, size_sqm, is_hidden, created_at
FROM rooms
WHERE property_id = ?
ORDER BY created_at, id
`

const listUnitImagesSQL = `
SELECT id, url, caption, is_primary, display_order
FROM images
WHERE room_id = ? AND is_active = 1
ORDER BY is_primary DESC, display_order, id
LIMIT ?
`

const listPropertyImagesSQL = `
SELECT id, url, caption, is_primary, display_order
FROM images
WHERE property_id = ? AND room_id IS NULL AND is_active = 1
ORDER BY is_primary DESC, display_order, id
LIMIT ?
`

// Selection order (ra.id) decides category order after grouping.
const listUnitAmenitiesSQL = `
SELECT a.name, COALESCE(ra.icon, a.icon, ''), COALESCE(ra.category, a.category, '')
FROM room_amenities ra
JOIN amenities a ON a.id = ra.amenity_id
WHERE ra.room_id = ?
ORDER BY ra.id
`

const listApprovedReviewsSQL = `
SELECT id, reviewer_name, rating, comment, review_date
FROM reviews
WHERE property_id = ? AND is_approved = 1
ORDER BY review_date DESC, id DESC
LIMIT ?
`

const availabilityColumns = `room_id, date, cm_price, direct_price, standard_price, min_stay, is_available`

const getAvailabilitySQL = `SELECT ` + availabilityColumns + `
FROM availability
WHERE room_id = ? AND date = ?
`

const listAvailabilitySQL = `SELECT ` + availabilityColumns + `
FROM availability
WHERE room_id = ? AND date BETWEEN ? AND ?
ORDER BY date
`

// -----------------------------------------------------------------------------
// OFFERS
// -----------------------------------------------------------------------------

// Several matching offers are a data problem; newest window start wins, open-ended starts last.
const findActiveOfferSQL = `
SELECT id, code, title, discount_percent, is_active, valid_from, valid_until
FROM offers
WHERE code = ?
  AND is_active = 1
  AND (valid_from IS NULL OR valid_from <= ?)
  AND (valid_until IS NULL OR valid_until >= ?)
ORDER BY valid_from IS NULL, valid_from DESC, id DESC
LIMIT 1
`
