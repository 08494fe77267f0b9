package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/foodorders/internal/catalog"
)

const restaurantCols = `id, owner_id, name, description, address, phone, email, cuisine, is_active,
  delivery_radius, delivery_fee::text, minimum_order::text, created_at, updated_at`

func scanRestaurant(r row) (*catalog.Restaurant, error) {
	var (
		x        catalog.Restaurant
		addr     []byte
		fee, min string
	)
	if err := r.Scan(&x.ID, &x.OwnerID, &x.Name, &x.Description, &addr, &x.Phone, &x.Email, &x.Cuisine,
		&x.IsActive, &x.DeliveryRadius, &fee, &min, &x.CreatedAt, &x.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(addr, &x.Address); err != nil {
		return nil, err
	}
	if err := money(&x.DeliveryFee, fee); err != nil {
		return nil, err
	}
	if err := money(&x.MinimumOrder, min); err != nil {
		return nil, err
	}
	return &x, nil
}

func (s *Store) GetRestaurant(ctx context.Context, id string) (*catalog.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanRestaurant(s.db.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id=$1`, id))
}

func (s *Store) GetRestaurantByOwner(ctx context.Context, ownerID string) (*catalog.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanRestaurant(s.db.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE owner_id=$1`, ownerID))
}

// SaveRestaurant upserts by id.
func (s *Store) SaveRestaurant(ctx context.Context, r *catalog.Restaurant) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	addr, err := json.Marshal(r.Address)
	if err != nil {
		return err
	}
	cuisine := r.Cuisine
	if cuisine == nil {
		cuisine = []string{}
	}
	_, err = s.db.Exec(ctx, `
    INSERT INTO restaurants (id, owner_id, name, description, address, phone, email, cuisine, is_active,
      delivery_radius, delivery_fee, minimum_order, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    ON CONFLICT (id) DO UPDATE SET
      name=EXCLUDED.name, description=EXCLUDED.description, address=EXCLUDED.address,
      phone=EXCLUDED.phone, email=EXCLUDED.email, cuisine=EXCLUDED.cuisine, is_active=EXCLUDED.is_active,
      delivery_radius=EXCLUDED.delivery_radius, delivery_fee=EXCLUDED.delivery_fee,
      minimum_order=EXCLUDED.minimum_order, updated_at=EXCLUDED.updated_at
  `, r.ID, r.OwnerID, r.Name, r.Description, string(addr), r.Phone, r.Email, cuisine, r.IsActive,
		r.DeliveryRadius, r.DeliveryFee.String(), r.MinimumOrder.String(), r.CreatedAt, r.UpdatedAt)
	return err
}

const itemCols = `id, restaurant_id, name, description, price::text, category, is_out_of_stock,
  is_vegetarian, is_spicy, preparation_time, is_active, created_at, updated_at`

func scanItem(r row) (*catalog.Item, error) {
	var (
		it    catalog.Item
		price string
	)
	if err := r.Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Description, &price, &it.Category, &it.IsOutOfStock,
		&it.IsVegetarian, &it.IsSpicy, &it.PreparationTime, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	if err := money(&it.Price, price); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanItem(s.db.QueryRow(ctx, `SELECT `+itemCols+` FROM items WHERE id=$1`, id))
}

func (s *Store) ListItems(ctx context.Context, restaurantID string) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
    SELECT `+itemCols+`
    FROM items WHERE restaurant_id=$1
    ORDER BY category, name
  `, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []catalog.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (s *Store) CreateItem(ctx context.Context, it *catalog.Item) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx, `
    INSERT INTO items (id, restaurant_id, name, description, price, category, is_out_of_stock,
      is_vegetarian, is_spicy, preparation_time, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
  `, it.ID, it.RestaurantID, it.Name, it.Description, it.Price.String(), it.Category, it.IsOutOfStock,
		it.IsVegetarian, it.IsSpicy, it.PreparationTime, it.IsActive, it.CreatedAt, it.UpdatedAt)
	return err
}

func (s *Store) UpdateItem(ctx context.Context, it *catalog.Item) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.db.Exec(ctx, `
    UPDATE items
    SET name=$2, description=$3, price=$4, category=$5, is_out_of_stock=$6, is_vegetarian=$7,
        is_spicy=$8, preparation_time=$9, is_active=$10, updated_at=$11
    WHERE id=$1
  `, it.ID, it.Name, it.Description, it.Price.String(), it.Category, it.IsOutOfStock, it.IsVegetarian,
		it.IsSpicy, it.PreparationTime, it.IsActive, it.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, restaurantID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM items WHERE id=$1 AND restaurant_id=$2`, id, restaurantID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
