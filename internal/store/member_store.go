package store

import "context"

// MemberStore answers organization membership questions. Managing members
// happens outside this service; only the creator is added here.
type MemberStore struct {
	db DB
}

func NewMemberStore(db DB) *MemberStore {
	return &MemberStore{db: db}
}

func (s *MemberStore) Add(ctx context.Context, tx Execer, orgID, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO organization_members (organization_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, orgID, userID)
	return err
}

func (s *MemberStore) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2
	`, orgID, userID)
	return count > 0, err
}
