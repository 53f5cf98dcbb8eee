//go:build integration

package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"condogov/internal/approval"
	"condogov/internal/process"
	id "condogov/pkg/domain"
	"condogov/pkg/platform/sentinel"
	"condogov/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *approval.PostgresStore
	processes *process.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = approval.NewPostgres(s.postgres.DB)
	s.processes = process.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "approvals", "rejections", "process_versions", "processes")
	s.Require().NoError(err)
}

// seedVersion creates a process with one version so approvals and rejections
// have valid foreign keys to point at.
func (s *PostgresStoreSuite) seedVersion() (*process.Process, *process.ProcessVersion) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := &process.Process{
		ID:                   id.ProcessID(uuid.New()),
		Name:                 "Processo em Revisão " + uuid.NewString(),
		Category:             id.CategoryGovernance,
		DocumentType:         id.DocumentRegulation,
		Status:               id.StatusInReview,
		CurrentVersionNumber: 1,
		CreatorID:            id.StakeholderID(uuid.New()),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	v := &process.ProcessVersion{
		ID:            id.VersionID(uuid.New()),
		ProcessID:     p.ID,
		VersionNumber: 1,
		Status:        id.StatusInReview,
		CreatedBy:     p.CreatorID,
		CreatedAt:     now,
	}
	s.Require().NoError(s.processes.CreateWithVersion(context.Background(), p, v))
	return p, v
}

func (s *PostgresStoreSuite) newApproval(p *process.Process, v *process.ProcessVersion, at time.Time) *approval.Approval {
	a, err := approval.NewApproval(id.ApprovalID(uuid.New()), p.ID, v.ID,
		id.StakeholderID(uuid.New()), id.ApprovalApproved, "de acordo", at)
	s.Require().NoError(err)
	return a
}

func (s *PostgresStoreSuite) newRejection(p *process.Process, v *process.ProcessVersion, at time.Time) *approval.Rejection {
	r, err := approval.NewRejection(id.RejectionID(uuid.New()), p.ID, v.ID,
		id.StakeholderID(uuid.New()), "fluxo incompleto, falta etapa de vistoria", at)
	s.Require().NoError(err)
	return r
}

// ============================================================================
// Approvals
// ============================================================================

func (s *PostgresStoreSuite) TestCreateApprovalRoundTrip() {
	ctx := context.Background()
	p, v := s.seedVersion()
	a := s.newApproval(p, v, time.Now().UTC().Truncate(time.Microsecond))

	s.Require().NoError(s.store.CreateApproval(ctx, a))

	byVersion, err := s.store.ListApprovalsByVersion(ctx, v.ID)
	s.Require().NoError(err)
	s.Require().Len(byVersion, 1)
	s.Equal(a.ID, byVersion[0].ID)
	s.Equal(a.StakeholderID, byVersion[0].StakeholderID)
	s.Equal(id.ApprovalApproved, byVersion[0].Type)
	s.Equal("de acordo", byVersion[0].Comments)
}

func (s *PostgresStoreSuite) TestDuplicateStakeholderApprovalConflicts() {
	ctx := context.Background()
	p, v := s.seedVersion()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := s.newApproval(p, v, now)
	s.Require().NoError(s.store.CreateApproval(ctx, a))

	dup, err := approval.NewApproval(id.ApprovalID(uuid.New()), p.ID, v.ID,
		a.StakeholderID, id.ApprovalApprovedWithReservations, "mudei de ideia", now)
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreateApproval(ctx, dup), sentinel.ErrConflict)

	count, err := s.store.CountApprovalsForVersion(ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *PostgresStoreSuite) TestListApprovalsMostRecentFirst() {
	ctx := context.Background()
	p, v := s.seedVersion()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.newApproval(p, v, base.Add(-2*time.Hour))
	second := s.newApproval(p, v, base.Add(-time.Hour))
	third := s.newApproval(p, v, base)
	for _, a := range []*approval.Approval{first, second, third} {
		s.Require().NoError(s.store.CreateApproval(ctx, a))
	}

	byProcess, err := s.store.ListApprovalsByProcess(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(byProcess, 3)
	s.Equal(third.ID, byProcess[0].ID)
	s.Equal(second.ID, byProcess[1].ID)
	s.Equal(first.ID, byProcess[2].ID)
}

// ============================================================================
// Rejections
// ============================================================================

func (s *PostgresStoreSuite) TestCreateRejectionRoundTrip() {
	ctx := context.Background()
	p, v := s.seedVersion()
	r := s.newRejection(p, v, time.Now().UTC().Truncate(time.Microsecond))

	s.Require().NoError(s.store.CreateRejection(ctx, r))

	byVersion, err := s.store.ListRejectionsByVersion(ctx, v.ID)
	s.Require().NoError(err)
	s.Require().Len(byVersion, 1)
	s.Equal(r.Reason, byVersion[0].Reason)
	s.Nil(byVersion[0].AddressedInVersionID)
}

func (s *PostgresStoreSuite) TestRepeatedRejectionsBySameStakeholder() {
	ctx := context.Background()
	p, v := s.seedVersion()
	now := time.Now().UTC().Truncate(time.Microsecond)

	first := s.newRejection(p, v, now.Add(-time.Hour))
	second, err := approval.NewRejection(id.RejectionID(uuid.New()), p.ID, v.ID,
		first.StakeholderID, "continua sem a etapa de vistoria", now)
	s.Require().NoError(err)

	// Unlike approvals, nothing stops a reviewer from rejecting again.
	s.Require().NoError(s.store.CreateRejection(ctx, first))
	s.Require().NoError(s.store.CreateRejection(ctx, second))

	byProcess, err := s.store.ListRejectionsByProcess(ctx, p.ID)
	s.Require().NoError(err)
	s.Len(byProcess, 2)
}

func (s *PostgresStoreSuite) TestLinkAddressedVersion() {
	ctx := context.Background()
	p, v1 := s.seedVersion()
	r := s.newRejection(p, v1, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.CreateRejection(ctx, r))

	v2 := &process.ProcessVersion{
		ID:            id.VersionID(uuid.New()),
		ProcessID:     p.ID,
		VersionNumber: 2,
		Status:        id.StatusDraft,
		ChangeSummary: "atende a rejeição",
		CreatedBy:     p.CreatorID,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.processes.AppendVersion(ctx, v2))

	s.Require().NoError(s.store.LinkAddressedVersion(ctx, r.ID, v2.ID))

	byProcess, err := s.store.ListRejectionsByProcess(ctx, p.ID)
	s.Require().NoError(err)
	s.Require().Len(byProcess, 1)
	s.Require().NotNil(byProcess[0].AddressedInVersionID)
	s.Equal(v2.ID, *byProcess[0].AddressedInVersionID)
}

func (s *PostgresStoreSuite) TestLinkAddressedVersionUnknownRejection() {
	_, v := s.seedVersion()
	err := s.store.LinkAddressedVersion(context.Background(), id.RejectionID(uuid.New()), v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// ============================================================================
// Cascade from process deletion
// ============================================================================

func (s *PostgresStoreSuite) TestProcessDeleteCascades() {
	ctx := context.Background()
	p, v := s.seedVersion()
	now := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.CreateApproval(ctx, s.newApproval(p, v, now)))
	s.Require().NoError(s.store.CreateRejection(ctx, s.newRejection(p, v, now)))

	s.Require().NoError(s.processes.Delete(ctx, p.ID))

	approvals, err := s.store.ListApprovalsByProcess(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(approvals)

	rejections, err := s.store.ListRejectionsByProcess(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(rejections)
}
