package gloas

import (
	ssz "github.com/ferranbt/fastssz"

	fieldparams "github.com/dapplion/gloas/config/fieldparams"
)

// HashTreeRoot ssz hashes the Fork object.
func (f *Fork) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the Fork object with a hasher.
func (f *Fork) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(f.PreviousVersion) != fieldparams.VersionLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(f.PreviousVersion)

	if len(f.CurrentVersion) != fieldparams.VersionLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(f.CurrentVersion)

	hh.PutUint64(uint64(f.Epoch))

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the Checkpoint object.
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Checkpoint object with a hasher.
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	hh.PutUint64(uint64(c.Epoch))

	if len(c.Root) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.Root)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the BeaconBlockHeader object.
func (h *BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(h)
}

// HashTreeRootWith ssz hashes the BeaconBlockHeader object with a hasher.
func (h *BeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	hh.PutUint64(uint64(h.Slot))
	hh.PutUint64(uint64(h.ProposerIndex))

	if len(h.ParentRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.ParentRoot)

	if len(h.StateRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.StateRoot)

	if len(h.BodyRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(h.BodyRoot)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the Validator object.
func (v *Validator) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith ssz hashes the Validator object with a hasher.
func (v *Validator) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(v.PublicKey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(v.PublicKey)

	if len(v.WithdrawalCredentials) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(v.WithdrawalCredentials)

	hh.PutUint64(v.EffectiveBalance)
	hh.PutBool(v.Slashed)
	hh.PutUint64(uint64(v.ActivationEpoch))
	hh.PutUint64(uint64(v.ExitEpoch))
	hh.PutUint64(uint64(v.WithdrawableEpoch))

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the Builder object.
func (b *Builder) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the Builder object with a hasher.
func (b *Builder) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(b.PublicKey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.PublicKey)

	if len(b.ExecutionAddress) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.ExecutionAddress)

	hh.PutUint64(uint64(b.Balance))
	hh.PutUint64(uint64(b.DepositEpoch))
	hh.PutUint64(uint64(b.WithdrawableEpoch))

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ExecutionPayloadBid object.
func (b *ExecutionPayloadBid) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the ExecutionPayloadBid object with a hasher.
func (b *ExecutionPayloadBid) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(b.ParentBlockHash) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.ParentBlockHash)

	if len(b.ParentBlockRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.ParentBlockRoot)

	if len(b.BlockHash) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.BlockHash)

	if len(b.PrevRandao) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.PrevRandao)

	if len(b.FeeRecipient) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(b.FeeRecipient)

	hh.PutUint64(b.GasLimit)
	hh.PutUint64(uint64(b.BuilderIndex))
	hh.PutUint64(uint64(b.Slot))
	hh.PutUint64(uint64(b.Value))
	hh.PutUint64(uint64(b.ExecutionPayment))

	{
		subIndx := hh.Index()
		num := uint64(len(b.BlobKzgCommitments))
		if num > fieldparams.MaxBlobCommitmentsPerBlock {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range b.BlobKzgCommitments {
			if len(elem) != fieldparams.BLSPubkeyLength {
				return ssz.ErrBytesLength
			}
			hh.PutBytes(elem)
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxBlobCommitmentsPerBlock)
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the SignedExecutionPayloadBid object.
func (s *SignedExecutionPayloadBid) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedExecutionPayloadBid object with a hasher.
func (s *SignedExecutionPayloadBid) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if s.Message == nil {
		s.Message = &ExecutionPayloadBid{}
	}
	if err = s.Message.HashTreeRootWith(hh); err != nil {
		return err
	}

	if len(s.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(s.Signature)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the BuilderPendingWithdrawal object.
func (w *BuilderPendingWithdrawal) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(w)
}

// HashTreeRootWith ssz hashes the BuilderPendingWithdrawal object with a hasher.
func (w *BuilderPendingWithdrawal) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(w.FeeRecipient) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(w.FeeRecipient)

	hh.PutUint64(uint64(w.Amount))
	hh.PutUint64(uint64(w.BuilderIndex))

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the BuilderPendingPayment object.
func (p *BuilderPendingPayment) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(p)
}

// HashTreeRootWith ssz hashes the BuilderPendingPayment object with a hasher.
func (p *BuilderPendingPayment) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	hh.PutUint64(uint64(p.Weight))

	if p.Withdrawal == nil {
		p.Withdrawal = &BuilderPendingWithdrawal{FeeRecipient: make([]byte, fieldparams.FeeRecipientLength)}
	}
	if err = p.Withdrawal.HashTreeRootWith(hh); err != nil {
		return err
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the Withdrawal object.
func (w *Withdrawal) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(w)
}

// HashTreeRootWith ssz hashes the Withdrawal object with a hasher.
func (w *Withdrawal) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	hh.PutUint64(w.Index)
	hh.PutUint64(uint64(w.ValidatorIndex))

	if len(w.Address) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(w.Address)

	hh.PutUint64(w.Amount)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ExecutionPayload object.
func (p *ExecutionPayload) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(p)
}

// HashTreeRootWith ssz hashes the ExecutionPayload object with a hasher.
func (p *ExecutionPayload) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(p.ParentHash) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.ParentHash)

	if len(p.FeeRecipient) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.FeeRecipient)

	if len(p.StateRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.StateRoot)

	if len(p.ReceiptsRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.ReceiptsRoot)

	if len(p.LogsBloom) != fieldparams.LogsBloomLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.LogsBloom)

	if len(p.PrevRandao) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.PrevRandao)

	hh.PutUint64(p.BlockNumber)
	hh.PutUint64(p.GasLimit)
	hh.PutUint64(p.GasUsed)
	hh.PutUint64(p.Timestamp)

	{
		elemIndx := hh.Index()
		byteLen := uint64(len(p.ExtraData))
		if byteLen > 32 {
			return ssz.ErrIncorrectListSize
		}
		hh.PutBytes(p.ExtraData)
		hh.MerkleizeWithMixin(elemIndx, byteLen, (32+31)/32)
	}

	if len(p.BaseFeePerGas) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.BaseFeePerGas)

	if len(p.BlockHash) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.BlockHash)

	{
		subIndx := hh.Index()
		num := uint64(len(p.Transactions))
		if num > fieldparams.MaxTxsPerPayloadLength {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range p.Transactions {
			{
				elemIndx := hh.Index()
				byteLen := uint64(len(elem))
				if byteLen > fieldparams.MaxBytesPerTxLength {
					return ssz.ErrIncorrectListSize
				}
				hh.AppendBytes32(elem)
				hh.MerkleizeWithMixin(elemIndx, byteLen, (fieldparams.MaxBytesPerTxLength+31)/32)
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxTxsPerPayloadLength)
	}

	{
		subIndx := hh.Index()
		num := uint64(len(p.Withdrawals))
		if num > fieldparams.MaxWithdrawalsPerPayload {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range p.Withdrawals {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxWithdrawalsPerPayload)
	}

	hh.PutUint64(p.BlobGasUsed)
	hh.PutUint64(p.ExcessBlobGas)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the DepositRequest object.
func (d *DepositRequest) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(d)
}

// HashTreeRootWith ssz hashes the DepositRequest object with a hasher.
func (d *DepositRequest) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(d.Pubkey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(d.Pubkey)

	if len(d.WithdrawalCredentials) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(d.WithdrawalCredentials)

	hh.PutUint64(d.Amount)

	if len(d.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(d.Signature)

	hh.PutUint64(d.Index)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the WithdrawalRequest object.
func (w *WithdrawalRequest) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(w)
}

// HashTreeRootWith ssz hashes the WithdrawalRequest object with a hasher.
func (w *WithdrawalRequest) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(w.SourceAddress) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(w.SourceAddress)

	if len(w.ValidatorPubkey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(w.ValidatorPubkey)

	hh.PutUint64(w.Amount)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ConsolidationRequest object.
func (c *ConsolidationRequest) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the ConsolidationRequest object with a hasher.
func (c *ConsolidationRequest) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(c.SourceAddress) != fieldparams.FeeRecipientLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.SourceAddress)

	if len(c.SourcePubkey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.SourcePubkey)

	if len(c.TargetPubkey) != fieldparams.BLSPubkeyLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.TargetPubkey)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ExecutionRequests object.
func (r *ExecutionRequests) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(r)
}

// HashTreeRootWith ssz hashes the ExecutionRequests object with a hasher.
func (r *ExecutionRequests) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	{
		subIndx := hh.Index()
		num := uint64(len(r.Deposits))
		if num > fieldparams.MaxDepositRequestsPerPayload {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range r.Deposits {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxDepositRequestsPerPayload)
	}

	{
		subIndx := hh.Index()
		num := uint64(len(r.Withdrawals))
		if num > fieldparams.MaxWithdrawalRequestsPerPayload {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range r.Withdrawals {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxWithdrawalRequestsPerPayload)
	}

	{
		subIndx := hh.Index()
		num := uint64(len(r.Consolidations))
		if num > fieldparams.MaxConsolidationRequestsPerPayload {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range r.Consolidations {
			if err = elem.HashTreeRootWith(hh); err != nil {
				return err
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, fieldparams.MaxConsolidationRequestsPerPayload)
	}

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ExecutionPayloadEnvelope object.
func (e *ExecutionPayloadEnvelope) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(e)
}

// HashTreeRootWith ssz hashes the ExecutionPayloadEnvelope object with a hasher.
func (e *ExecutionPayloadEnvelope) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if e.Payload == nil {
		e.Payload = &ExecutionPayload{}
	}
	if err = e.Payload.HashTreeRootWith(hh); err != nil {
		return err
	}

	if e.ExecutionRequests == nil {
		e.ExecutionRequests = &ExecutionRequests{}
	}
	if err = e.ExecutionRequests.HashTreeRootWith(hh); err != nil {
		return err
	}

	hh.PutUint64(uint64(e.BuilderIndex))

	if len(e.BeaconBlockRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(e.BeaconBlockRoot)

	hh.PutUint64(uint64(e.Slot))

	if len(e.StateRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(e.StateRoot)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the SignedExecutionPayloadEnvelope object.
func (s *SignedExecutionPayloadEnvelope) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedExecutionPayloadEnvelope object with a hasher.
func (s *SignedExecutionPayloadEnvelope) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if s.Message == nil {
		s.Message = &ExecutionPayloadEnvelope{}
	}
	if err = s.Message.HashTreeRootWith(hh); err != nil {
		return err
	}

	if len(s.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(s.Signature)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the PayloadAttestationData object.
func (d *PayloadAttestationData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(d)
}

// HashTreeRootWith ssz hashes the PayloadAttestationData object with a hasher.
func (d *PayloadAttestationData) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(d.BeaconBlockRoot) != fieldparams.RootLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(d.BeaconBlockRoot)

	hh.PutUint64(uint64(d.Slot))
	hh.PutBool(d.PayloadPresent)
	hh.PutBool(d.BlobDataAvailable)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the PayloadAttestationMessage object.
func (m *PayloadAttestationMessage) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(m)
}

// HashTreeRootWith ssz hashes the PayloadAttestationMessage object with a hasher.
func (m *PayloadAttestationMessage) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	hh.PutUint64(uint64(m.ValidatorIndex))

	if m.Data == nil {
		m.Data = &PayloadAttestationData{}
	}
	if err = m.Data.HashTreeRootWith(hh); err != nil {
		return err
	}

	if len(m.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(m.Signature)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the PayloadAttestation object.
func (a *PayloadAttestation) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the PayloadAttestation object with a hasher.
func (a *PayloadAttestation) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	if len(a.AggregationBits) != fieldparams.PTCSize/8 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(a.AggregationBits)

	if a.Data == nil {
		a.Data = &PayloadAttestationData{}
	}
	if err = a.Data.HashTreeRootWith(hh); err != nil {
		return err
	}

	if len(a.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(a.Signature)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the IndexedPayloadAttestation object.
func (p *IndexedPayloadAttestation) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(p)
}

// HashTreeRootWith ssz hashes the IndexedPayloadAttestation object with a hasher.
func (p *IndexedPayloadAttestation) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()

	{
		subIndx := hh.Index()
		num := uint64(len(p.AttestingIndices))
		if num > fieldparams.PTCSize {
			return ssz.ErrIncorrectListSize
		}
		for _, elem := range p.AttestingIndices {
			hh.AppendUint64(uint64(elem))
		}
		hh.FillUpTo32()
		hh.MerkleizeWithMixin(subIndx, num, (fieldparams.PTCSize*8+31)/32)
	}

	if p.Data == nil {
		p.Data = &PayloadAttestationData{}
	}
	if err = p.Data.HashTreeRootWith(hh); err != nil {
		return err
	}

	if len(p.Signature) != fieldparams.BLSSignatureLength {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(p.Signature)

	hh.Merkleize(indx)
	return nil
}
