/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  exe_fs.go - NCCH Executable Filesystem.
 */

package citrus

import (
  "bytes"
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Grandària de la capçalera: 10 descriptors, 0x20 reservats i 10
// hashos SHA-256.
const EXEFS_HEADER_SIZE = 0x200

type ExeFS_File struct {

  Name   string
  Offset uint32
  Size   uint32
  Hash   [0x20]byte

}

type ExeFS struct {

  Files []ExeFS_File

  acc utils.Accessor

}


/************/
/* FUNCIONS */
/************/

// Les lletres majúscules ASCII es passen a minúscules. La resta de
// bytes es comparen tal qual.
func toLowerASCII( s string ) string {

  buf:= []byte(s)
  for i:= 0; i < len(buf); i++ {
    if buf[i] >= 'A' && buf[i] <= 'Z' {
      buf[i]+= 'a'-'A'
    }
  }

  return string(buf)

} // end toLowerASCII


// L'ExeFS no té número màgic: es comprova que els 10 descriptors
// siguen coherents (noms ASCII acabats en NULs i regions dins de la
// finestra) i que almenys un no estiga buit.
func ProbeExeFS( acc utils.Accessor ) bool {

  if acc.Len () < EXEFS_HEADER_SIZE { return false }
  var buf [0xa0]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil { return false }

  nfiles:= 0
  for i:= 0; i < 10; i++ {

    mem:= buf[i*16:(i+1)*16]
    name:= mem[:8]

    // Nom: ASCII imprimible seguit de NULs.
    in_pad:= false
    empty:= true
    for _,c:= range name {
      if c == 0 {
        in_pad= true
      } else if in_pad || c < 0x21 || c > 0x7e {
        return false
      } else {
        empty= false
      }
    }
    if empty { continue }

    offset:= uint32(mem[8]) |
      (uint32(mem[9])<<8) |
      (uint32(mem[10])<<16) |
      (uint32(mem[11])<<24)
    size:= uint32(mem[12]) |
      (uint32(mem[13])<<8) |
      (uint32(mem[14])<<16) |
      (uint32(mem[15])<<24)
    if EXEFS_HEADER_SIZE + int64(offset) + int64(size) > acc.Len () {
      return false
    }
    nfiles++

  }

  return nfiles > 0

} // end ProbeExeFS


// mem ha de ser un slice de 16 bytes. hashos és la regió de hashos de
// la capçalera.
func (self *ExeFS) addFile( index int, mem []byte, hashos []byte ) {

  file_name:= bytes.TrimRight ( mem[:8], "\000" )
  if len(file_name)>0 {
    offset:= uint32(mem[8]) |
      (uint32(mem[9])<<8) |
      (uint32(mem[10])<<16) |
      (uint32(mem[11])<<24)
    size:= uint32(mem[12]) |
      (uint32(mem[13])<<8) |
      (uint32(mem[14])<<16) |
      (uint32(mem[15])<<24)
    file:= ExeFS_File{
      Name: string(file_name),
      Offset: offset,
      Size: size,
    }
    // El hash del descriptor i està en la posició 9-i.
    copy ( file.Hash[:], hashos[(9-index)*0x20:(10-index)*0x20] )
    self.Files= append(self.Files,file)
  }

} // end ExeFS.addFile


func NewExeFS( acc utils.Accessor ) (*ExeFS,error) {

  // Llig capçalera.
  var buf [EXEFS_HEADER_SIZE]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil {
    return nil,fmt.Errorf ( "Error while reading ExeFS header: %w", err )
  }

  // Inicialitza
  ret:= ExeFS{
    Files: nil,
    acc: acc,
  }
  ret.Files= make([]ExeFS_File,0,10)

  // Afegeix fitxers
  hashos:= buf[0xc0:0x200]
  for i:= 0; i < 10; i++ {
    ret.addFile ( i, buf[i*16:(i+1)*16], hashos )
  }

  // Comprova que les regions queden dins de la finestra.
  for i:= range ret.Files {
    f:= &ret.Files[i]
    end:= EXEFS_HEADER_SIZE + int64(f.Offset) + int64(f.Size)
    if end > acc.Len () {
      return nil,fmt.Errorf ( "Error while reading ExeFS header: file '%s'"+
        " ([%d,%d[) is out of bounds ([0,%d[): %w",
        f.Name, EXEFS_HEADER_SIZE+int64(f.Offset), end, acc.Len (),
        utils.ErrInvalidFormat )
    }
  }

  return &ret,nil

} // end NewExeFS


// Cerca sense distingir majúscules de minúscules. Si no el troba
// torna nil.
func (self *ExeFS) Lookup( name string ) *ExeFS_File {

  name= toLowerASCII ( name )
  for i:= range self.Files {
    if toLowerASCII ( self.Files[i].Name ) == name {
      return &self.Files[i]
    }
  }

  return nil

} // end Lookup


func (self *ExeFS) Open( file *ExeFS_File ) (utils.Accessor,error) {
  return utils.Slice (
    self.acc,
    EXEFS_HEADER_SIZE + int64(uint64(file.Offset)),
    int64(uint64(file.Size)),
  )
} // end ExeFS.Open


func (self *ExeFS) OpenIndex( index int ) (utils.Accessor,error) {
  return self.Open ( &self.Files[index] )
} // end ExeFS.OpenIndex
