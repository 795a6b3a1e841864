package ledger

// Procurement registry contract. Tender records are keyed by their
// database id, award and contract anchors reference the same key.
const procurementABI = `[
  {
    "name": "createTender",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "id", "type": "string"},
      {"name": "title", "type": "string"},
      {"name": "valueAmount", "type": "uint256"},
      {"name": "closingDate", "type": "uint256"},
      {"name": "procuringEntityId", "type": "string"},
      {"name": "dataHash", "type": "string"}
    ],
    "outputs": []
  },
  {
    "name": "getTender",
    "type": "function",
    "stateMutability": "view",
    "inputs": [
      {"name": "id", "type": "string"}
    ],
    "outputs": [
      {"name": "id", "type": "string"},
      {"name": "title", "type": "string"},
      {"name": "valueAmount", "type": "uint256"},
      {"name": "closingDate", "type": "uint256"},
      {"name": "procuringEntityId", "type": "string"},
      {"name": "dataHash", "type": "string"},
      {"name": "awardedBidId", "type": "string"},
      {"name": "contractId", "type": "string"},
      {"name": "exists", "type": "bool"}
    ]
  },
  {
    "name": "recordAward",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tenderId", "type": "string"},
      {"name": "awardId", "type": "string"},
      {"name": "bidId", "type": "string"},
      {"name": "supplierId", "type": "string"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "recordContract",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tenderId", "type": "string"},
      {"name": "contractId", "type": "string"},
      {"name": "awardId", "type": "string"},
      {"name": "contractValue", "type": "uint256"},
      {"name": "fileUrl", "type": "string"}
    ],
    "outputs": []
  }
]`
